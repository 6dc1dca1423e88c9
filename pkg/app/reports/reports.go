// Package reports aggregates summary statistics over ledger snapshots.
// It owns no state and never mutates; callers pass point-in-time
// snapshots and get counts back.
package reports

import (
	"github.com/dlemos/padaria/pkg/app/inventory"
	"github.com/dlemos/padaria/pkg/app/orders"
)

// Summary is the derived report. Series holds the two-bucket
// [delivered, pending] values the bar chart renders.
type Summary struct {
	TotalOrders int    `json:"totalPedidos"`
	Delivered   int    `json:"entregues"`
	Pending     int    `json:"pendentes"`
	LowStock    int    `json:"estoqueBaixo"`
	Series      [2]int `json:"series"`
}

// Build computes the summary from the given snapshots.
func Build(products []inventory.Product, orderList []orders.Order) Summary {
	var s Summary
	s.TotalOrders = len(orderList)
	for _, o := range orderList {
		if o.Delivered {
			s.Delivered++
		} else {
			s.Pending++
		}
	}
	for _, p := range products {
		if p.LowStock() {
			s.LowStock++
		}
	}
	s.Series = [2]int{s.Delivered, s.Pending}
	return s
}
