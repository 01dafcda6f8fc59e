package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rl1809/order-service/internal/core/service"
)

type HTTPHandler struct {
	log    *zap.Logger
	placer service.Placer
}

func NewHTTPHandler(log *zap.Logger, placer service.Placer) *HTTPHandler {
	return &HTTPHandler{log: log, placer: placer}
}

type orderLineItemDTO struct {
	SKUCode  string  `json:"skuCode"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type placeOrderRequest struct {
	OrderLineItems []orderLineItemDTO `json:"orderLineItems"`
}

type placeOrderResponse struct {
	Success     bool     `json:"success"`
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	OrderNumber string   `json:"orderNumber,omitempty"`
	SKUCodes    []string `json:"skuCodes,omitempty"`
}

func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(WithRequestID)
	r.Use(WithLogging(h.log))
	r.Post("/api/order", h.placeOrder)
	r.Get("/health", h.healthCheck)
	return r
}

func (h *HTTPHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, placeOrderResponse{
			Code:    "invalid_request",
			Message: "invalid request body",
		})
		return
	}
	if len(req.OrderLineItems) == 0 {
		writeJSON(w, http.StatusBadRequest, placeOrderResponse{
			Code:    "invalid_request",
			Message: "order line items must not be empty",
		})
		return
	}

	lineItems := make([]service.LineItemRequest, 0, len(req.OrderLineItems))
	for _, li := range req.OrderLineItems {
		lineItems = append(lineItems, service.LineItemRequest{
			SKUCode:  li.SKUCode,
			Quantity: li.Quantity,
			Price:    li.Price,
		})
	}

	orderNumber, err := h.placer.PlaceOrder(r.Context(), service.PlaceOrderRequest{LineItems: lineItems})
	if err != nil {
		h.writePlacementError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, placeOrderResponse{
		Success:     true,
		Code:        "placed",
		Message:     "Order Placed Successfully",
		OrderNumber: orderNumber,
	})
}

// writePlacementError maps each error kind to a distinct status and machine
// code so callers can branch programmatically, retrying only on
// inventory_unavailable.
func (h *HTTPHandler) writePlacementError(w http.ResponseWriter, err error) {
	var invalidLine *service.InvalidLineItemError
	var unavailable *service.UnavailableSKUError
	var outOfStock *service.OutOfStockError

	switch {
	case errors.As(err, &invalidLine):
		writeJSON(w, http.StatusBadRequest, placeOrderResponse{
			Code:     "invalid_line_item",
			Message:  err.Error(),
			SKUCodes: invalidLine.SKUCodes,
		})
	case errors.As(err, &unavailable):
		writeJSON(w, http.StatusUnprocessableEntity, placeOrderResponse{
			Code:     "invalid_sku",
			Message:  err.Error(),
			SKUCodes: unavailable.SKUCodes,
		})
	case errors.As(err, &outOfStock):
		writeJSON(w, http.StatusConflict, placeOrderResponse{
			Code:     "out_of_stock",
			Message:  err.Error(),
			SKUCodes: outOfStock.SKUCodes,
		})
	case errors.Is(err, service.ErrInventoryUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, placeOrderResponse{
			Code:    "inventory_unavailable",
			Message: "inventory service unavailable, please order after some time",
		})
	case errors.Is(err, service.ErrPersistenceFailure):
		h.log.Error("order persistence failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, placeOrderResponse{
			Code:    "persistence_failure",
			Message: "failed to save order",
		})
	default:
		h.log.Error("order placement failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, placeOrderResponse{
			Code:    "internal_error",
			Message: "internal error",
		})
	}
}

func (h *HTTPHandler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
