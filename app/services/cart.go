package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/till/app/models"
	"github.com/shashiranjanraj/till/pkg/metrics"
)

// Appender receives completed transactions. *LedgerStore satisfies it.
type Appender interface {
	Append(ctx context.Context, tx models.Transaction) error
}

// Cart is the in-progress sale. Lines stay in insertion order and no line has
// a quantity below one.
type Cart struct {
	mu     sync.Mutex
	lines  []models.CartLine
	ledger Appender
	now    func() time.Time
}

// NewCart builds an empty cart. now defaults to time.Now.
func NewCart(ledger Appender, now func() time.Time) *Cart {
	if now == nil {
		now = time.Now
	}
	return &Cart{ledger: ledger, now: now}
}

// AddProduct adds one unit of p. An existing line keeps its original price
// snapshot.
func (c *Cart) AddProduct(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, models.CartLine{Product: p, Quantity: 1})
}

// AdjustQuantity adds delta to the line for id, clamping at zero and removing
// the line when it gets there. Unknown ids are ignored.
func (c *Cart) AdjustQuantity(id string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ID != id {
			continue
		}
		q := c.lines[i].Quantity + delta
		if q <= 0 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
		c.lines[i].Quantity = q
		return
	}
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyLines(c.lines)
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Total is Σ price × quantity.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total, _ := totals(c.lines)
	return total
}

// Profit is Σ (price − cost) × quantity.
func (c *Cart) Profit() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, profit := totals(c.lines)
	return profit
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

// Checkout turns the cart into a transaction, hands it to the ledger and
// clears the cart. An empty cart is a no-op reported with ok=false. The cart
// is cleared even when the ledger reports an error; the returned transaction
// is still valid in that case.
func (c *Cart) Checkout(ctx context.Context, method models.PaymentMethod) (models.Transaction, bool, error) {
	if !method.Valid() {
		return models.Transaction{}, false, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	c.mu.Lock()
	if len(c.lines) == 0 {
		c.mu.Unlock()
		return models.Transaction{}, false, nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		c.mu.Unlock()
		return models.Transaction{}, false, fmt.Errorf("checkout: new id: %w", err)
	}

	total, profit := totals(c.lines)
	tx := models.Transaction{
		ID:            id.String(),
		Timestamp:     c.now().UnixMilli(),
		Items:         copyLines(c.lines),
		TotalAmount:   total,
		TotalProfit:   profit,
		PaymentMethod: method,
	}
	c.lines = nil
	c.mu.Unlock()

	metrics.Checkouts.WithLabelValues(string(method)).Inc()
	if total > 0 {
		metrics.Revenue.Add(total)
	}

	if err := c.ledger.Append(ctx, tx); err != nil {
		return tx, true, fmt.Errorf("checkout: record transaction: %w", err)
	}
	return tx, true, nil
}

func totals(lines []models.CartLine) (total, profit float64) {
	for _, l := range lines {
		total += l.Subtotal()
		profit += l.Margin()
	}
	return total, profit
}

func copyLines(lines []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(lines))
	copy(out, lines)
	return out
}
