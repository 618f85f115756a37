package models

import "time"

// PaymentMethod is one of a closed set of tender types.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentQR   PaymentMethod = "qr"
)

// Valid reports whether m belongs to the supported set.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentQR:
		return true
	}
	return false
}

// Transaction is the immutable record of a completed sale. Column names match
// the remote "transactions" table, whose amount columns are camelCase.
type Transaction struct {
	ID            string        `gorm:"column:id;primaryKey;size:64"           json:"id"`
	Timestamp     int64         `gorm:"column:timestamp;index"                 json:"timestamp"`
	Items         []CartLine    `gorm:"column:items;serializer:json;type:text" json:"items"`
	TotalAmount   float64       `gorm:"column:totalAmount"                     json:"totalAmount"`
	TotalProfit   float64       `gorm:"column:totalProfit"                     json:"totalProfit"`
	PaymentMethod PaymentMethod `gorm:"column:paymentMethod;size:16"           json:"paymentMethod"`
}

func (Transaction) TableName() string { return "transactions" }

// Time converts the millisecond timestamp to a local time.Time.
func (t Transaction) Time() time.Time { return time.UnixMilli(t.Timestamp) }
