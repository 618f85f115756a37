package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/till/app/models"
)

func TestSummarize(t *testing.T) {
	now := time.Now()
	s := Summarize([]models.Transaction{txAt(now, 44, 32), txAt(now, 16, 4)})

	assert.Equal(t, 60.0, s.TotalRevenue)
	assert.Equal(t, 36.0, s.TotalProfit)
	assert.Equal(t, 2, s.TransactionCount)
	assert.Equal(t, 30.0, s.AverageOrderValue)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, SalesSummary{}, Summarize(nil))
}

func TestLastSevenDays(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.Local)
	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)

	txs := []models.Transaction{
		txAt(today.Add(time.Hour), 10, 4),
		txAt(today.Add(2*time.Hour), 5, 1),
		txAt(today.AddDate(0, 0, -6).Add(time.Minute), 7, 2),
		txAt(today.AddDate(0, 0, -7).Add(23*time.Hour), 100, 100),
	}

	points := LastSevenDays(txs, now)
	require.Len(t, points, 7)

	assert.Equal(t, "2026-03-08", points[0].Date)
	assert.Equal(t, 7.0, points[0].Revenue)
	assert.Equal(t, "2026-03-14", points[6].Date)
	assert.Equal(t, 15.0, points[6].Revenue)
	assert.Equal(t, 5.0, points[6].Profit)
	for _, p := range points[1:6] {
		assert.Zero(t, p.Revenue)
	}
}
