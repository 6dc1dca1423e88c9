package reports

import (
	"testing"

	"github.com/dlemos/padaria/pkg/app/inventory"
	"github.com/dlemos/padaria/pkg/app/orders"
)

func TestBuild(t *testing.T) {
	products := []inventory.Product{
		{ID: "p1", Name: "Pão", Quantity: 2},
		{ID: "p2", Name: "Bolo", Quantity: 10},
	}
	orderList := []orders.Order{
		{ID: "o1", Client: "Ana", Product: "Pão", Quantity: 1, Delivered: true},
		{ID: "o2", Client: "Bia", Product: "Bolo", Quantity: 2, Delivered: true},
		{ID: "o3", Client: "Caio", Product: "Pão", Quantity: 3, Delivered: false},
	}

	s := Build(products, orderList)

	if s.TotalOrders != 3 {
		t.Errorf("TotalOrders = %d, want 3", s.TotalOrders)
	}
	if s.Delivered != 2 {
		t.Errorf("Delivered = %d, want 2", s.Delivered)
	}
	if s.Pending != 1 {
		t.Errorf("Pending = %d, want 1", s.Pending)
	}
	if s.LowStock != 1 {
		t.Errorf("LowStock = %d, want 1", s.LowStock)
	}
	if s.Series != [2]int{2, 1} {
		t.Errorf("Series = %v, want [2 1]", s.Series)
	}
}

func TestBuild_Empty(t *testing.T) {
	s := Build(nil, nil)
	if s != (Summary{}) {
		t.Errorf("Build(nil, nil) = %+v, want zero summary", s)
	}
}

func TestBuild_ThresholdBoundary(t *testing.T) {
	// Exactly 3 counts as low stock, 4 does not.
	products := []inventory.Product{
		{ID: "p1", Quantity: 3},
		{ID: "p2", Quantity: 4},
	}
	if s := Build(products, nil); s.LowStock != 1 {
		t.Errorf("LowStock = %d, want 1", s.LowStock)
	}
}
