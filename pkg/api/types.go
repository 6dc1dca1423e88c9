package api

// API request/response types for REST endpoints and WebSocket messages

// AddProductRequest mirrors the stock form: quantity arrives as the raw
// text field so the ledger can reject non-numeric input itself.
type AddProductRequest struct {
	Name     string `json:"nome"`
	Quantity string `json:"quantidade"`
	Category string `json:"categoria"`
}

// PlaceOrderRequest mirrors the order form.
type PlaceOrderRequest struct {
	Client   string `json:"cliente"`
	Product  string `json:"produto"`
	Quantity int    `json:"quantidade"`
}

// PriceResponse carries the suggested sale price, or null when the
// inputs define no price (cost <= 0 or margin+tax >= 100).
type PriceResponse struct {
	Price *string `json:"preco"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ==============================
// WebSocket Messages
// ==============================

// WSRequest is an inbound client message. Only "refresh" is understood:
// the client pulls a fresh report snapshot, nothing is pushed unasked.
type WSRequest struct {
	Type string `json:"type"`
}

// WSReports answers a refresh request.
type WSReports struct {
	Type string `json:"type"` // always "reports"
	Data any    `json:"data"`
}
