// Package api exposes the ledgers over REST and WebSocket so any front
// end (mobile app, web, curl) can drive them.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/dlemos/padaria/pkg/app"
	"github.com/dlemos/padaria/pkg/app/core"
	"github.com/dlemos/padaria/pkg/app/pricing"
)

// Server handles REST API and WebSocket connections
type Server struct {
	app     *app.App
	router  *mux.Router
	hub     *Hub
	log     *zap.SugaredLogger
	origins []string
	httpSrv *http.Server
}

// NewServer creates a new API server
func NewServer(a *app.App, log *zap.SugaredLogger, corsOrigins []string) *Server {
	s := &Server{
		app:     a,
		router:  mux.NewRouter(),
		hub:     NewHub(log),
		log:     log,
		origins: corsOrigins,
	}
	s.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	// Built here, not in Start, so Shutdown always has the server even
	// when a signal lands before the listener is up.
	s.httpSrv = &http.Server{Handler: c.Handler(s.router)}

	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	// Inventory endpoints
	api.HandleFunc("/products", s.handleListProducts).Methods("GET")
	api.HandleFunc("/products", s.handleAddProduct).Methods("POST")
	api.HandleFunc("/products/{id}/increment", s.handleIncrementProduct).Methods("POST")
	api.HandleFunc("/products/{id}/decrement", s.handleDecrementProduct).Methods("POST")
	api.HandleFunc("/products/{id}", s.handleDeleteProduct).Methods("DELETE")

	// Order endpoints
	api.HandleFunc("/orders", s.handleListOrders).Methods("GET")
	api.HandleFunc("/orders", s.handlePlaceOrder).Methods("POST")
	api.HandleFunc("/orders/{id}/delivered", s.handleToggleDelivered).Methods("POST")
	api.HandleFunc("/orders/{id}", s.handleDeleteOrder).Methods("DELETE")

	// Derived views
	api.HandleFunc("/reports", s.handleReports).Methods("GET")
	api.HandleFunc("/price", s.handlePrice).Methods("GET")

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start starts the API server and blocks until Shutdown.
func (s *Server) Start(addr string) error {
	s.httpSrv.Addr = addr
	s.log.Infow("api_server_starting", "addr", addr)

	// A Shutdown that already ran makes this return ErrServerClosed
	// immediately; no listener is left behind.
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()
	return s.httpSrv.Shutdown(ctx)
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler { return s.router }

// ==============================
// Inventory Handlers
// ==============================

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	respondJSON(w, http.StatusOK, s.app.Inventory.Search(q))
}

func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	p, err := s.app.Inventory.Add(req.Name, req.Quantity, req.Category)
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	s.log.Infow("product_added", "id", p.ID, "nome", p.Name, "quantidade", p.Quantity)
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleIncrementProduct(w http.ResponseWriter, r *http.Request) {
	s.mutateByID(w, r, s.app.Inventory.Increment)
}

func (s *Server) handleDecrementProduct(w http.ResponseWriter, r *http.Request) {
	s.mutateByID(w, r, s.app.Inventory.Decrement)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	// Confirmation happens in the front end; a DELETE here is final.
	s.mutateByID(w, r, s.app.Inventory.Remove)
}

// ==============================
// Order Handlers
// ==============================

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.app.Orders.Snapshot())
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	o, err := s.app.Orders.Place(req.Client, req.Product, req.Quantity)
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	s.log.Infow("order_placed", "id", o.ID, "cliente", o.Client, "produto", o.Product)
	respondJSON(w, http.StatusCreated, o)
}

func (s *Server) handleToggleDelivered(w http.ResponseWriter, r *http.Request) {
	s.mutateByID(w, r, s.app.Orders.ToggleDelivered)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	s.mutateByID(w, r, s.app.Orders.Remove)
}

// ==============================
// Derived Views
// ==============================

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	// Explicit refresh on every request: the report is recomputed from
	// current snapshots, never cached or pushed.
	respondJSON(w, http.StatusOK, s.app.RefreshReports())
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	price, ok := pricing.Price(q.Get("custo"), q.Get("margem"), q.Get("imposto"))

	var resp PriceResponse
	if ok {
		v := price.StringFixed(2)
		resp.Price = &v
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ==============================
// Helper Functions
// ==============================

// mutateByID runs an id-keyed ledger mutation. Absent ids are no-ops by
// contract, so success and no-op both answer 204.
func (s *Server) mutateByID(w http.ResponseWriter, r *http.Request, op func(string) error) {
	id := mux.Vars(r)["id"]
	if err := op(id); err != nil {
		s.respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondAppError maps ledger errors: rejected input is the caller's
// fault (400); a failed persist left memory ahead of disk and is
// retryable (502). Neither is fatal to the process.
func (s *Server) respondAppError(w http.ResponseWriter, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		respondError(w, http.StatusBadRequest, "validation failed", verr.Error())
		return
	}
	var serr *core.StorageError
	if errors.As(err, &serr) {
		respondError(w, http.StatusBadGateway, "persist failed, retry", serr.Error())
		return
	}
	respondError(w, http.StatusInternalServerError, "internal error", err.Error())
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Message: message,
	})
}
