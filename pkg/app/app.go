// Package app wires the ledgers over one store and exposes the derived
// reporting entry point.
package app

import (
	"go.uber.org/zap"

	"github.com/dlemos/padaria/pkg/app/inventory"
	"github.com/dlemos/padaria/pkg/app/orders"
	"github.com/dlemos/padaria/pkg/app/reports"
	"github.com/dlemos/padaria/pkg/storage"
)

// App is the bakery back office: both ledgers plus reporting. Each
// ledger exclusively owns its collection and its storage key; App only
// composes them.
type App struct {
	Inventory *inventory.Ledger
	Orders    *orders.Ledger
}

// New builds the app over kv and loads both persisted snapshots.
func New(kv storage.KV, log *zap.SugaredLogger) *App {
	a := &App{
		Inventory: inventory.NewLedger(kv, log),
		Orders:    orders.NewLedger(kv, log),
	}
	a.Inventory.Load()
	a.Orders.Load()
	return a
}

// RefreshReports recomputes the summary from current snapshots. This is
// the explicit refresh entry point: callers invoke it when they want
// updated aggregates, nothing recomputes behind their back.
func (a *App) RefreshReports() reports.Summary {
	return reports.Build(a.Inventory.Snapshot(), a.Orders.Snapshot())
}
