// Package orders owns the order collection and its delivery state.
package orders

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dlemos/padaria/pkg/app/core"
	"github.com/dlemos/padaria/pkg/storage"
)

// Order is a client order. Delivered starts false and is the only
// mutable field. JSON tags are the persisted wire contract.
type Order struct {
	ID        string `json:"id"`
	Client    string `json:"cliente"`
	Product   string `json:"produto"`
	Quantity  int    `json:"quantidade"`
	Delivered bool   `json:"entregue"`
}

// Ledger owns the in-memory order collection, most-recent-first, and is
// the sole writer of its storage key.
type Ledger struct {
	mu    sync.Mutex
	items []Order
	kv    storage.KV
	log   *zap.SugaredLogger
}

func NewLedger(kv storage.KV, log *zap.SugaredLogger) *Ledger {
	return &Ledger{items: []Order{}, kv: kv, log: log}
}

// Load reads the persisted snapshot into memory. Same soft-fail
// semantics as the inventory ledger: missing or corrupt payloads yield
// an empty collection, with corruption logged.
func (l *Ledger) Load() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = []Order{}

	raw, ok, err := l.kv.Get(storage.KeyOrders)
	if err != nil {
		l.log.Warnw("orders_load_failed", "key", storage.KeyOrders, "err", err)
		return
	}
	if !ok {
		return
	}

	var items []Order
	if err := json.Unmarshal(raw, &items); err != nil {
		l.log.Warnw("orders_payload_corrupt", "key", storage.KeyOrders, "err", err)
		return
	}
	if items != nil {
		l.items = items
	}
}

// Place validates, prepends a new pending order and persists. The
// created order is returned so the caller can build its confirmation
// message.
func (l *Ledger) Place(client, product string, quantity int) (Order, error) {
	if strings.TrimSpace(client) == "" {
		return Order{}, &core.ValidationError{Field: "cliente", Reason: "required"}
	}
	if strings.TrimSpace(product) == "" {
		return Order{}, &core.ValidationError{Field: "produto", Reason: "required"}
	}
	if quantity <= 0 {
		return Order{}, &core.ValidationError{Field: "quantidade", Reason: "must be greater than zero"}
	}

	o := Order{
		ID:       uuid.NewString(),
		Client:   client,
		Product:  product,
		Quantity: quantity,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]Order{o}, l.items...)
	return o, l.persist("orders.place")
}

// ToggleDelivered flips the delivered flag. Self-inverse; the order
// keeps its position in the list. No-op if id absent.
func (l *Ledger) ToggleDelivered(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].Delivered = !l.items[i].Delivered
			return l.persist("orders.toggle_delivered")
		}
	}
	return nil
}

// Remove deletes the order with the given id. Absent id is a no-op;
// confirmation is the caller's concern.
func (l *Ledger) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := make([]Order, 0, len(l.items))
	for _, o := range l.items {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(l.items) {
		return nil
	}
	l.items = kept
	return l.persist("orders.remove")
}

// Snapshot returns a copy of the current collection, most-recent-first.
// Never nil, so an empty collection still encodes as a JSON array.
func (l *Ledger) Snapshot() []Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append(make([]Order, 0, len(l.items)), l.items...)
}

func (l *Ledger) persist(op string) error {
	data, err := json.Marshal(l.items)
	if err != nil {
		return &core.StorageError{Op: op, Key: storage.KeyOrders, Err: err}
	}
	if err := l.kv.Set(storage.KeyOrders, data); err != nil {
		l.log.Errorw("orders_persist_failed", "op", op, "err", err)
		return &core.StorageError{Op: op, Key: storage.KeyOrders, Err: err}
	}
	return nil
}
