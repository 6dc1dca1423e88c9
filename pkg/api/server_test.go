package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dlemos/padaria/pkg/app"
	"github.com/dlemos/padaria/pkg/app/inventory"
	"github.com/dlemos/padaria/pkg/app/orders"
	"github.com/dlemos/padaria/pkg/app/reports"
	"github.com/dlemos/padaria/pkg/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	a := app.New(storage.NewMemKV(), zap.NewNop().Sugar())
	return NewServer(a, zap.NewNop().Sugar(), nil)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, r)
	return w
}

func TestAddProduct(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, "POST", "/api/v1/products", `{"nome":"Pão Francês","quantidade":"10","categoria":"Pães"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body)
	}

	var p inventory.Product
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ID == "" || p.Name != "Pão Francês" || p.Quantity != 10 {
		t.Errorf("created product = %+v", p)
	}
}

func TestAddProduct_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"blank name", `{"nome":" ","quantidade":"10"}`},
		{"bad quantity", `{"nome":"Bolo","quantidade":"dez"}`},
		{"zero quantity", `{"nome":"Bolo","quantidade":"0"}`},
		{"malformed json", `{"nome":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			if w := do(t, s, "POST", "/api/v1/products", tt.body); w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", w.Code, w.Body)
			}
		})
	}
}

func TestProductLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, "POST", "/api/v1/products", `{"nome":"Broa","quantidade":"1","categoria":"Pães"}`)
	var p inventory.Product
	json.Unmarshal(w.Body.Bytes(), &p)

	if w := do(t, s, "POST", "/api/v1/products/"+p.ID+"/increment", ""); w.Code != http.StatusNoContent {
		t.Fatalf("increment: %d", w.Code)
	}
	if w := do(t, s, "POST", "/api/v1/products/"+p.ID+"/decrement", ""); w.Code != http.StatusNoContent {
		t.Fatalf("decrement: %d", w.Code)
	}

	// Search finds it case-insensitively
	w = do(t, s, "GET", "/api/v1/products?q=BROA", "")
	var found []inventory.Product
	json.Unmarshal(w.Body.Bytes(), &found)
	if len(found) != 1 || found[0].Quantity != 1 {
		t.Fatalf("search = %v", found)
	}

	if w := do(t, s, "DELETE", "/api/v1/products/"+p.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
	// Absent id stays a 204 no-op
	if w := do(t, s, "DELETE", "/api/v1/products/"+p.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete absent: %d", w.Code)
	}

	w = do(t, s, "GET", "/api/v1/products", "")
	json.Unmarshal(w.Body.Bytes(), &found)
	if len(found) != 0 {
		t.Errorf("products after delete = %v", found)
	}
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, "POST", "/api/v1/orders", `{"cliente":"Ana","produto":"Bolo de Fubá","quantidade":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("place: %d %s", w.Code, w.Body)
	}
	var o orders.Order
	json.Unmarshal(w.Body.Bytes(), &o)
	if o.Delivered {
		t.Error("new order delivered = true, want false")
	}

	if w := do(t, s, "POST", "/api/v1/orders/"+o.ID+"/delivered", ""); w.Code != http.StatusNoContent {
		t.Fatalf("toggle: %d", w.Code)
	}

	w = do(t, s, "GET", "/api/v1/orders", "")
	var list []orders.Order
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 || !list[0].Delivered {
		t.Fatalf("orders = %v", list)
	}

	if w := do(t, s, "DELETE", "/api/v1/orders/"+o.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", w.Code)
	}
}

func TestPlaceOrder_Rejected(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, "POST", "/api/v1/orders", `{"cliente":"","produto":"Bolo","quantidade":0}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error == "" {
		t.Error("error body missing")
	}
}

func TestReports(t *testing.T) {
	s := newTestServer(t)

	do(t, s, "POST", "/api/v1/products", `{"nome":"Pão","quantidade":"2","categoria":"Pães"}`)
	do(t, s, "POST", "/api/v1/products", `{"nome":"Bolo","quantidade":"10","categoria":"Doces"}`)

	do(t, s, "POST", "/api/v1/orders", `{"cliente":"Ana","produto":"Pão","quantidade":1}`)
	w := do(t, s, "POST", "/api/v1/orders", `{"cliente":"Bia","produto":"Bolo","quantidade":2}`)
	var o orders.Order
	json.Unmarshal(w.Body.Bytes(), &o)
	do(t, s, "POST", "/api/v1/orders/"+o.ID+"/delivered", "")

	w = do(t, s, "GET", "/api/v1/reports", "")
	if w.Code != http.StatusOK {
		t.Fatalf("reports: %d", w.Code)
	}
	var sum reports.Summary
	json.Unmarshal(w.Body.Bytes(), &sum)

	want := reports.Summary{TotalOrders: 2, Delivered: 1, Pending: 1, LowStock: 1, Series: [2]int{1, 1}}
	if sum != want {
		t.Errorf("summary = %+v, want %+v", sum, want)
	}
}

func TestPriceEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, "GET", "/api/v1/price?custo=10&margem=40&imposto=5", "")
	var resp PriceResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Price == nil || *resp.Price != "18.18" {
		t.Errorf("price = %v, want 18.18", resp.Price)
	}

	// Denominator <= 0 yields null, never a negative or infinite price.
	w = do(t, s, "GET", "/api/v1/price?custo=10&margem=60&imposto=45", "")
	resp = PriceResponse{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Price != nil {
		t.Errorf("price = %v, want null", *resp.Price)
	}

	// Non-finite input answers null too; ParseFloat accepts these spellings.
	for _, q := range []string{"custo=Inf&margem=40", "custo=NaN&margem=40", "custo=10&margem=NaN&imposto=NaN"} {
		w = do(t, s, "GET", "/api/v1/price?"+q, "")
		if w.Code != http.StatusOK {
			t.Errorf("price?%s: status %d", q, w.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	if w := do(t, s, "GET", "/health", ""); w.Code != http.StatusOK {
		t.Errorf("health: %d", w.Code)
	}
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/orders", "/api/v1/products", "/api/v1/products?q=nada"} {
		w := do(t, s, "GET", path, "")
		if got := strings.TrimSpace(w.Body.String()); got != "[]" {
			t.Errorf("GET %s = %s, want []", path, got)
		}
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown before Start: %v", err)
	}

	// A Start after Shutdown must return promptly with no error instead
	// of leaving a live listener behind.
	if err := s.Start("127.0.0.1:0"); err != nil {
		t.Fatalf("Start after Shutdown: %v", err)
	}
}
