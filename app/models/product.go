package models

// Product is a sellable catalog entry. ID is stable across the local and
// remote stores.
type Product struct {
	ID       string  `gorm:"column:id;primaryKey;size:64" json:"id"       validate:"required"`
	Name     string  `gorm:"column:name"                  json:"name"     validate:"required,max=120"`
	Price    float64 `gorm:"column:price"                 json:"price"    validate:"gte=0"`
	Cost     float64 `gorm:"column:cost"                  json:"cost"     validate:"gte=0"`
	Category string  `gorm:"column:category"              json:"category" validate:"max=60"`
}

func (Product) TableName() string { return "products" }

// CartLine is a product snapshot plus the quantity selected. Inside a
// Transaction it keeps the price and cost at the time of sale.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal is price × quantity.
func (l CartLine) Subtotal() float64 { return l.Price * float64(l.Quantity) }

// Margin is (price − cost) × quantity.
func (l CartLine) Margin() float64 { return (l.Price - l.Cost) * float64(l.Quantity) }
