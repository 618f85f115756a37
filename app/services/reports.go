package services

import (
	"time"

	"github.com/shashiranjanraj/till/app/models"
)

// SalesSummary are the headline figures of the statistics dashboard.
type SalesSummary struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalProfit       float64 `json:"totalProfit"`
	TransactionCount  int     `json:"transactionCount"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// DayPoint is one bar of the daily chart.
type DayPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

func Summarize(txs []models.Transaction) SalesSummary {
	var s SalesSummary
	for _, tx := range txs {
		s.TotalRevenue += tx.TotalAmount
		s.TotalProfit += tx.TotalProfit
	}
	s.TransactionCount = len(txs)
	if s.TransactionCount > 0 {
		s.AverageOrderValue = s.TotalRevenue / float64(s.TransactionCount)
	}
	return s
}

// LastSevenDays buckets revenue and profit into the seven local calendar days
// ending with now's, oldest first. Days without sales are present with zeros.
func LastSevenDays(txs []models.Transaction, now time.Time) []DayPoint {
	const days = 7
	today := startOfDay(now)
	first := today.AddDate(0, 0, -(days - 1))

	points := make([]DayPoint, days)
	for i := range points {
		points[i].Date = first.AddDate(0, 0, i).Format("2006-01-02")
	}

	for _, tx := range txs {
		t := tx.Time().In(now.Location())
		if t.Before(first) || !t.Before(today.AddDate(0, 0, 1)) {
			continue
		}
		idx := dayIndex(first, startOfDay(t))
		if idx < 0 || idx >= days {
			continue
		}
		points[idx].Revenue += tx.TotalAmount
		points[idx].Profit += tx.TotalProfit
	}
	return points
}

// dayIndex counts calendar days from first to day. Counting by date rather
// than by 24h spans keeps DST transitions from shifting buckets.
func dayIndex(first, day time.Time) int {
	for i := 0; i < 8; i++ {
		if first.AddDate(0, 0, i).Equal(day) {
			return i
		}
	}
	return -1
}
