// Package storage provides the persistent key-value store the ledgers
// write their collections to.
package storage

// Storage key schema.
//
// One key per ledger, each holding the whole collection as a JSON array
// in most-recent-first order, overwritten wholesale on every mutation.
// The key names and the JSON field names inside the arrays are the wire
// contract shared with the original mobile app's local storage, so
// existing data stays readable.
const (
	KeyInventory = "@estoque_padaria"
	KeyOrders    = "@pedidos_padaria"
)

// KV is the minimal store surface the ledgers need: durable get/set of
// serialized byte content under a string key.
type KV interface {
	// Get returns the value for key. The second result is false when the
	// key has never been written, which callers treat as an empty
	// collection.
	Get(key string) ([]byte, bool, error)
	// Set durably overwrites the value for key.
	Set(key string, value []byte) error
	Close() error
}
