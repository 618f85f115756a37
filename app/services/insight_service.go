package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/pkg/cache"
	"github.com/shashiranjanraj/till/pkg/crypt"
	"github.com/shashiranjanraj/till/pkg/logger"
	"github.com/shashiranjanraj/till/pkg/metrics"
)

// InsightFallback is returned whenever an insight cannot be generated.
const InsightFallback = "AI insight is unavailable right now. Check your network connection or try again later."

const topItemsLimit = 5

// ItemCount is units sold of one item name.
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailySummary is the only sales data that leaves the process for an insight.
type DailySummary struct {
	Date             string      `json:"date"`
	TotalSales       float64     `json:"totalSales"`
	TotalProfit      float64     `json:"totalProfit"`
	TransactionCount int         `json:"transactionCount"`
	TopSellingItems  []ItemCount `json:"topSellingItems"`
	InventoryCount   int         `json:"inventoryCount"`
}

// Aggregate summarises the transactions that fall on now's local calendar day.
// Top items are ranked by summed quantity per item name; on equal counts the
// name seen first keeps the higher rank.
func Aggregate(txs []models.Transaction, products []models.Product, now time.Time) DailySummary {
	start := startOfDay(now)
	end := start.AddDate(0, 0, 1)

	sum := DailySummary{
		Date:            now.Format("2006-01-02"),
		TopSellingItems: []ItemCount{},
		InventoryCount:  len(products),
	}

	counts := map[string]int{}
	var order []string
	for _, tx := range txs {
		t := tx.Time()
		if t.Before(start) || !t.Before(end) {
			continue
		}
		sum.TotalSales += tx.TotalAmount
		sum.TotalProfit += tx.TotalProfit
		sum.TransactionCount++

		for _, item := range tx.Items {
			if _, seen := counts[item.Name]; !seen {
				order = append(order, item.Name)
			}
			counts[item.Name] += item.Quantity
		}
	}

	for _, name := range order {
		sum.TopSellingItems = append(sum.TopSellingItems, ItemCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(sum.TopSellingItems, func(i, j int) bool {
		return sum.TopSellingItems[i].Count > sum.TopSellingItems[j].Count
	})
	if len(sum.TopSellingItems) > topItemsLimit {
		sum.TopSellingItems = sum.TopSellingItems[:topItemsLimit]
	}
	return sum
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Generator produces free text for a prompt. *genai.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type InsightService struct {
	gen   Generator
	cache *cache.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewInsightService wires a text generator and an optional cache. A nil gen
// makes every request return InsightFallback.
func NewInsightService(gen Generator, store *cache.Store, ttl time.Duration) *InsightService {
	return &InsightService{gen: gen, cache: store, ttl: ttl, now: time.Now}
}

// Insight aggregates today's sales and generates a summary for them.
func (s *InsightService) Insight(ctx context.Context, txs []models.Transaction, products []models.Product) string {
	return s.Generate(ctx, Aggregate(txs, products, s.now()))
}

// Generate never fails: any problem is logged and InsightFallback returned.
func (s *InsightService) Generate(ctx context.Context, summary DailySummary) string {
	log := logger.WithCtx(ctx)

	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Error("insight: marshal summary", "error", err)
		metrics.InsightRequests.WithLabelValues("fallback").Inc()
		return InsightFallback
	}

	key := "insight:" + crypt.Hash(payload)
	var cached string
	if s.cache.Get(ctx, key, &cached) && cached != "" {
		metrics.InsightRequests.WithLabelValues("cached").Inc()
		return cached
	}

	if s.gen == nil {
		metrics.InsightRequests.WithLabelValues("fallback").Inc()
		return InsightFallback
	}

	text, err := s.gen.Generate(ctx, insightPrompt(payload))
	if err != nil {
		log.Warn("insight: generation failed, using fallback", "error", err)
		metrics.InsightRequests.WithLabelValues("fallback").Inc()
		return InsightFallback
	}

	if err := s.cache.Set(ctx, key, text, s.ttl); err != nil {
		log.Warn("insight: cache write failed", "error", err)
	}
	metrics.InsightRequests.WithLabelValues("generated").Inc()
	return text
}

func insightPrompt(summary []byte) string {
	return fmt.Sprintf(`You are a professional retail business analyst. Analyse the following daily sales summary for a small business.

Data:
`+"```json\n%s\n```"+`

Write a concise daily report (under 150 words) containing:
1. A quick performance assessment (excellent, average or needs improvement).
2. One key observation about profit margin or best-selling items.
3. One actionable suggestion to raise tomorrow's sales or profit.

Keep the tone professional and encouraging.`, summary)
}
