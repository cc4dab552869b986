// Package sandbox implements the deterministic retail backend agents run
// against: an in-memory product catalog and order store, plus the tool
// layer that exposes it through declared function calls.
//
// A Store is trial-scoped by default; the executor builds a fresh one per
// trial. Mutating operations are guarded by the store mutex so a shared
// store also stays correct under concurrent trials.
package sandbox

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/retailbench/retailbench/internal/models"
)

// Product is a catalog entry.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	InStock     bool    `json:"in_stock"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
}

// StockInfo reports current availability for one product.
type StockInfo struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	InStock   bool   `json:"in_stock"`
	Quantity  int    `json:"quantity"`
}

// OrderLine is one requested line item.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderItem is one confirmed line item with pricing.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// Order is a confirmed order record.
type Order struct {
	ID                string      `json:"order_id"`
	CustomerID        string      `json:"customer_id"`
	Items             []OrderItem `json:"items"`
	TotalPrice        float64     `json:"total_price"`
	Status            string      `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
	EstimatedDelivery time.Time   `json:"estimated_delivery"`
	DiscountCode      string      `json:"discount_code,omitempty"`
	DiscountAmount    float64     `json:"discount_amount,omitempty"`
}

// DiscountResult describes an applied discount.
type DiscountResult struct {
	Code          string  `json:"code"`
	Percent       float64 `json:"discount_percent"`
	Amount        float64 `json:"discount_amount"`
	OriginalTotal float64 `json:"original_total"`
	NewTotal      float64 `json:"new_total"`
}

// discountCodes is the fixed allow-list of valid codes.
var discountCodes = map[string]float64{
	"SAVE10":    0.10,
	"WELCOME20": 0.20,
	"STUDENT15": 0.15,
}

// Store is the shared mutable catalog and order store. All mutations are
// visible immediately to subsequent calls on the same instance.
type Store struct {
	mu           sync.Mutex
	products     map[string]*Product
	orders       map[string]*Order
	orderCounter int
	now          func() time.Time
}

// NewStore returns a store seeded with the standard product catalog.
func NewStore() *Store {
	s := &Store{
		products:     make(map[string]*Product),
		orders:       make(map[string]*Order),
		orderCounter: 1,
		now:          time.Now,
	}
	for _, p := range seedProducts() {
		cp := p
		s.products[p.ID] = &cp
	}
	return s
}

func seedProducts() []Product {
	return []Product{
		{
			ID: "prod_001", Name: "Wireless Headphones", Category: "Electronics",
			Price: 199.99, InStock: true, Quantity: 50,
			Description: "High-quality wireless headphones with noise cancellation",
		},
		{
			ID: "prod_002", Name: "Running Shoes", Category: "Footwear",
			Price: 129.99, InStock: true, Quantity: 25,
			Description: "Comfortable running shoes for all terrains",
		},
		{
			ID: "prod_003", Name: "Coffee Maker", Category: "Appliances",
			Price: 89.99, InStock: false, Quantity: 0,
			Description: "Automatic drip coffee maker with programmable timer",
		},
		{
			ID: "prod_004", Name: "Yoga Mat", Category: "Fitness",
			Price: 39.99, InStock: true, Quantity: 100,
			Description: "Non-slip exercise yoga mat, 6mm thick",
		},
		{
			ID: "prod_005", Name: "Smartphone", Category: "Electronics",
			Price: 699.99, InStock: true, Quantity: 15,
			Description: "Latest smartphone with 128GB storage",
		},
	}
}

// Search returns products matching the query in name, description or
// category, optionally filtered by category.
func (s *Store) Search(query string, category string) []Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	var results []Product
	for _, p := range s.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			results = append(results, *p)
		}
	}
	return results
}

// GetProduct returns the product with the given id.
func (s *Store) GetProduct(id string) (Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return *p, nil
}

// CheckStock reports availability for the given product.
func (s *Store) CheckStock(id string) (StockInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return StockInfo{}, fmt.Errorf("product %s: %w", id, models.ErrNotFound)
	}
	return StockInfo{
		ProductID: p.ID,
		Name:      p.Name,
		InStock:   p.InStock,
		Quantity:  p.Quantity,
	}, nil
}

// CreateOrder validates every line item against current stock and, only if
// all are satisfiable, decrements quantities and records the order. The
// check and decrement happen under one lock so no interleaving caller can
// oversell.
func (s *Store) CreateOrder(customerID string, lines []OrderLine) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(lines) == 0 {
		return Order{}, fmt.Errorf("order must contain at least one item")
	}

	// Validate all lines before touching stock.
	for _, line := range lines {
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		p, ok := s.products[line.ProductID]
		if !ok {
			return Order{}, fmt.Errorf("product %s: %w", line.ProductID, models.ErrNotFound)
		}
		if !p.InStock || p.Quantity < qty {
			return Order{}, fmt.Errorf("%w for %s", models.ErrInsufficientStock, p.Name)
		}
	}

	orderID := fmt.Sprintf("order_%04d", s.orderCounter)
	s.orderCounter++

	var items []OrderItem
	var total float64
	for _, line := range lines {
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		p := s.products[line.ProductID]
		lineTotal := p.Price * float64(qty)
		items = append(items, OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    qty,
			UnitPrice:   p.Price,
			TotalPrice:  lineTotal,
		})
		total += lineTotal

		p.Quantity -= qty
		if p.Quantity == 0 {
			p.InStock = false
		}
	}

	now := s.now()
	order := &Order{
		ID:                orderID,
		CustomerID:        customerID,
		Items:             items,
		TotalPrice:        total,
		Status:            "confirmed",
		CreatedAt:         now,
		EstimatedDelivery: now.Add(72 * time.Hour),
	}
	s.orders[orderID] = order
	return *order, nil
}

// GetOrder returns the order with the given id.
func (s *Store) GetOrder(id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	return *o, nil
}

// ApplyDiscount applies one of the approved codes to a stored order,
// recomputing its total in place. An order that already carries a code
// rejects further applications; discounts never stack.
func (s *Store) ApplyDiscount(orderID, code string) (DiscountResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[orderID]
	if !ok {
		return DiscountResult{}, fmt.Errorf("order %s: %w", orderID, models.ErrNotFound)
	}

	percent, ok := discountCodes[code]
	if !ok {
		return DiscountResult{}, fmt.Errorf("%w: %s", models.ErrInvalidDiscountCode, code)
	}

	if o.DiscountCode != "" {
		return DiscountResult{}, fmt.Errorf("%w: order %s already has code %s", models.ErrDiscountApplied, orderID, o.DiscountCode)
	}

	original := o.TotalPrice
	amount := original * percent
	o.DiscountCode = code
	o.DiscountAmount = amount
	o.TotalPrice = original - amount

	return DiscountResult{
		Code:          code,
		Percent:       percent * 100,
		Amount:        amount,
		OriginalTotal: original,
		NewTotal:      o.TotalPrice,
	}, nil
}
