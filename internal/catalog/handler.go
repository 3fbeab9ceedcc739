package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MohamedInamulHasan/homly-api/internal/domain"
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Category: r.URL.Query().Get("category"),
		StoreID:  r.URL.Query().Get("store"),
	}
	if raw := r.URL.Query().Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "featured must be true or false")
			return
		}
		filter.Featured = &featured
	}

	products, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	product, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}
	if product == nil {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := validateProduct(&product); msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}

	product.ID = ""
	if err := h.repo.Create(r.Context(), &product); err != nil {
		h.logger.Error("failed to create product", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("product created", "product_id", product.ID, "title", product.Title)
	h.writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	product.ID = id

	if msg := validateProduct(&product); msg != "" {
		h.writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.repo.Update(r.Context(), &product)
	if err != nil {
		h.logger.Error("failed to update product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	if !updated {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Info("product updated", "product_id", id)
	h.writeJSON(w, http.StatusOK, product)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete product", "error", err, "product_id", id)
		h.writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	}

	h.logger.Info("product deleted", "product_id", id)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "product deleted"})
}

func validateProduct(p *domain.Product) string {
	if p.Title == "" {
		return "title is required"
	}
	if p.Price.IsNegative() {
		return "price must not be negative"
	}
	if p.Stock < 0 {
		return "stock must not be negative"
	}
	return ""
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
