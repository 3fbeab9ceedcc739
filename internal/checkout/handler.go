package checkout

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Handler exposes the delivery slot schedule so the storefront can render
// the picker without duplicating the rollover rules client-side.
type Handler struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		now:    time.Now,
	}
}

type slotsResponse struct {
	Slots []time.Time `json:"slots"`
}

func (h *Handler) HandleDeliverySlots(w http.ResponseWriter, r *http.Request) {
	slots := DeliverySlots(h.now())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(slotsResponse{Slots: slots}); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
