// Package inventory owns the stock collection: products, their
// quantities, and the search over them.
package inventory

import (
	"encoding/json"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dlemos/padaria/pkg/app/core"
	"github.com/dlemos/padaria/pkg/storage"
)

// LowStockThreshold marks a product as low stock at or below this
// quantity. Defined once here; presentation and reporting both use it
// through LowStock.
const LowStockThreshold = 3

// Product is a stock item. JSON tags are the persisted wire contract
// (shared with the original app's local storage).
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"nome"`
	Quantity int    `json:"quantidade"`
	Category string `json:"categoria"`
}

// LowStock reports whether the product is at or below the restock threshold.
func (p Product) LowStock() bool { return p.Quantity <= LowStockThreshold }

// Ledger owns the in-memory product collection and is the sole writer
// of its storage key. Items are kept most-recent-first; that order is
// part of the observable contract.
type Ledger struct {
	mu    sync.Mutex
	items []Product
	kv    storage.KV
	log   *zap.SugaredLogger
}

func NewLedger(kv storage.KV, log *zap.SugaredLogger) *Ledger {
	return &Ledger{items: []Product{}, kv: kv, log: log}
}

// Load reads the persisted snapshot into memory. Fails soft: a missing
// key or a corrupt payload yields an empty collection. Corruption is
// logged so data loss is at least visible to the operator.
func (l *Ledger) Load() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = []Product{}

	raw, ok, err := l.kv.Get(storage.KeyInventory)
	if err != nil {
		l.log.Warnw("inventory_load_failed", "key", storage.KeyInventory, "err", err)
		return
	}
	if !ok {
		return
	}

	var items []Product
	if err := json.Unmarshal(raw, &items); err != nil {
		l.log.Warnw("inventory_payload_corrupt", "key", storage.KeyInventory, "err", err)
		return
	}
	if items != nil {
		l.items = items
	}
}

// Add validates the form input, prepends a new product with a fresh id
// and persists. Quantity arrives as the raw form string and must parse
// to a positive integer.
func (l *Ledger) Add(name, quantity, category string) (Product, error) {
	if strings.TrimSpace(name) == "" {
		return Product{}, &core.ValidationError{Field: "nome", Reason: "required"}
	}
	qty, err := strconv.Atoi(strings.TrimSpace(quantity))
	if err != nil || qty <= 0 {
		return Product{}, &core.ValidationError{Field: "quantidade", Reason: "must be a positive integer"}
	}

	p := Product{
		ID:       uuid.NewString(),
		Name:     name,
		Quantity: qty,
		Category: category,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]Product{p}, l.items...)
	return p, l.persist("inventory.add")
}

// Remove deletes the product with the given id. Absent id is a no-op,
// not an error; confirmation is the caller's concern.
func (l *Ledger) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := make([]Product, 0, len(l.items))
	for _, p := range l.items {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(l.items) {
		return nil
	}
	l.items = kept
	return l.persist("inventory.remove")
}

// Increment raises the quantity by one. No-op if id absent.
func (l *Ledger) Increment(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].Quantity++
			return l.persist("inventory.increment")
		}
	}
	return nil
}

// Decrement lowers the quantity by one, flooring at zero: a product at
// zero stays at zero. No-op if id absent.
func (l *Ledger) Decrement(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == id {
			if l.items[i].Quantity == 0 {
				return nil
			}
			l.items[i].Quantity--
			return l.persist("inventory.decrement")
		}
	}
	return nil
}

// Search returns the products whose name contains query,
// case-insensitively, preserving collection order. Empty query returns
// the full collection. Pure: no persistence effect.
func (l *Ledger) Search(query string) []Product {
	l.mu.Lock()
	defer l.mu.Unlock()

	q := strings.ToLower(query)
	out := make([]Product, 0, len(l.items))
	for _, p := range l.items {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// Snapshot returns a copy of the current collection, most-recent-first.
// Never nil, so an empty collection still encodes as a JSON array.
func (l *Ledger) Snapshot() []Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append(make([]Product, 0, len(l.items)), l.items...)
}

// persist writes the whole collection synchronously. The in-memory
// mutation stands even when the write fails; the error is reported as
// retryable rather than rolled back.
func (l *Ledger) persist(op string) error {
	data, err := json.Marshal(l.items)
	if err != nil {
		// Product marshals unconditionally; kept for completeness.
		return &core.StorageError{Op: op, Key: storage.KeyInventory, Err: err}
	}
	if err := l.kv.Set(storage.KeyInventory, data); err != nil {
		l.log.Errorw("inventory_persist_failed", "op", op, "err", err)
		return &core.StorageError{Op: op, Key: storage.KeyInventory, Err: err}
	}
	return nil
}
