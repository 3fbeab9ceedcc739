package orders

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/MohamedInamulHasan/homly-api/internal/auth"
	"github.com/MohamedInamulHasan/homly-api/internal/checkout"
	"github.com/MohamedInamulHasan/homly-api/internal/domain"
	"github.com/MohamedInamulHasan/homly-api/internal/messaging"
)

var handlerMeter = otel.Meter("orders/handler")

type Handler struct {
	repo          Repository
	producer      *messaging.Producer
	logger        *slog.Logger
	ordersCreated metric.Int64Counter
}

func NewHandler(repo Repository, producer *messaging.Producer, logger *slog.Logger) (*Handler, error) {
	ordersCreated, err := handlerMeter.Int64Counter("orders_created_total",
		metric.WithDescription("Number of orders accepted at checkout"))
	if err != nil {
		return nil, err
	}

	return &Handler{
		repo:          repo,
		producer:      producer,
		logger:        logger,
		ordersCreated: ordersCreated,
	}, nil
}

type createOrderRequest struct {
	Items                 []domain.OrderLine `json:"items"`
	ShippingAddress       domain.Address     `json:"shipping_address"`
	PaymentMethod         domain.Payment     `json:"payment_method"`
	Subtotal              decimal.Decimal    `json:"subtotal"`
	Shipping              decimal.Decimal    `json:"shipping"`
	Tax                   decimal.Decimal    `json:"tax"`
	Discount              decimal.Decimal    `json:"discount"`
	Total                 decimal.Decimal    `json:"total"`
	ScheduledDeliveryTime *time.Time         `json:"scheduled_delivery_time,omitempty"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Items) == 0 {
		h.writeError(w, http.StatusBadRequest, "order must contain at least one item")
		return
	}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			h.writeError(w, http.StatusBadRequest, "item quantity must be at least 1")
			return
		}
	}

	if err := checkout.ValidateAddress(req.ShippingAddress); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order := &domain.Order{
		Lines:             req.Items,
		ShippingAddress:   req.ShippingAddress,
		Payment:           req.PaymentMethod,
		Subtotal:          req.Subtotal,
		Shipping:          req.Shipping,
		Tax:               req.Tax,
		Discount:          req.Discount,
		Total:             req.Total,
		Status:            domain.OrderStatusProcessing,
		ScheduledDelivery: req.ScheduledDeliveryTime,
	}

	if id, ok := auth.FromContext(r.Context()); ok {
		order.UserID = id.UserID
	}

	// Totals come from the client and are stored as supplied; drift is only
	// logged so the admin UI contract stays intact.
	if !order.TotalsConsistent() {
		h.logger.Warn("client-supplied totals are inconsistent",
			"subtotal", order.Subtotal, "shipping", order.Shipping,
			"tax", order.Tax, "discount", order.Discount, "total", order.Total)
	}

	if err := h.repo.Create(r.Context(), order); err != nil {
		h.logger.Error("failed to create order", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	h.ordersCreated.Add(r.Context(), 1)

	// Admin notification is best-effort: a publish failure must never fail
	// the order that already committed.
	if h.producer != nil {
		event := domain.OrderCreatedEvent{
			OrderID:   order.ID,
			UserID:    order.UserID,
			Total:     order.Total,
			ItemCount: len(order.Lines),
			Timestamp: order.CreatedAt,
		}
		if err := h.producer.Publish(r.Context(), order.ID, event); err != nil {
			h.logger.Error("failed to publish order created event", "error", err, "order_id", order.ID)
		}
	}

	h.logger.Info("order created", "order_id", order.ID, "user_id", order.UserID, "total", order.Total)
	h.writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var (
		orders []domain.Order
		err    error
	)
	if id.Admin {
		orders, err = h.repo.List(r.Context())
	} else {
		orders, err = h.repo.ListByUser(r.Context(), id.UserID)
	}
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	h.writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if orderID == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	order, err := h.repo.GetByID(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	id, ok := auth.FromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	// Guest orders carry no owner, so only admins can read them back.
	if !id.Admin && (order.UserID == "" || order.UserID != id.UserID) {
		h.writeError(w, http.StatusForbidden, "not allowed to view this order")
		return
	}

	h.writeJSON(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if orderID == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		h.writeError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	order, err := h.repo.GetByID(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to get order", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "failed to load order")
		return
	}
	if order == nil {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	if !order.Status.CanTransitionTo(req.Status) {
		h.writeError(w, http.StatusConflict,
			"cannot transition order from "+string(order.Status)+" to "+string(req.Status))
		return
	}

	updated, err := h.repo.UpdateStatus(r.Context(), orderID, order.Status, req.Status)
	if err != nil {
		h.logger.Error("failed to update order status", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}
	if updated == nil {
		// status moved underneath us between the read and the guarded write
		h.writeError(w, http.StatusConflict, "order status changed, retry")
		return
	}

	h.logger.Info("order status updated", "order_id", orderID, "from", order.Status, "to", updated.Status)
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")
	if orderID == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	deleted, err := h.repo.Delete(r.Context(), orderID)
	if err != nil {
		h.logger.Error("failed to delete order", "error", err, "order_id", orderID)
		h.writeError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "order not found")
		return
	}

	h.logger.Info("order deleted", "order_id", orderID)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "order deleted"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{"success": false, "message": message})
}
