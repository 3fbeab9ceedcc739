package stores

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/MohamedInamulHasan/homly-api/internal/auth"
	"github.com/MohamedInamulHasan/homly-api/internal/domain"
)

type Handler struct {
	repo   Repository
	logger *slog.Logger
}

func NewHandler(repo Repository, logger *slog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// HandleList returns active stores to shoppers; admins see the full directory.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if id, ok := auth.FromContext(r.Context()); ok && id.Admin {
		activeOnly = false
	}

	stores, err := h.repo.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("failed to list stores", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list stores")
		return
	}

	h.writeJSON(w, http.StatusOK, stores)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing store id")
		return
	}

	store, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get store", "error", err, "store_id", id)
		h.writeError(w, http.StatusInternalServerError, "failed to load store")
		return
	}
	if store == nil {
		h.writeError(w, http.StatusNotFound, "store not found")
		return
	}

	h.writeJSON(w, http.StatusOK, store)
}

type storeRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Category string `json:"category"`
	Timing   string `json:"timing"`
	Mobile   string `json:"mobile"`
	Password string `json:"password,omitempty"`
	IsActive bool   `json:"is_active"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	store := domain.Store{
		Name:     req.Name,
		Location: req.Location,
		Category: req.Category,
		Timing:   req.Timing,
		Mobile:   req.Mobile,
		IsActive: req.IsActive,
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.logger.Error("failed to hash store password", "error", err)
			h.writeError(w, http.StatusInternalServerError, "failed to create store")
			return
		}
		store.PasswordHash = string(hash)
	}

	if err := h.repo.Create(r.Context(), &store); err != nil {
		h.logger.Error("failed to create store", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create store")
		return
	}

	h.logger.Info("store created", "store_id", store.ID, "name", store.Name)
	h.writeJSON(w, http.StatusCreated, store)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing store id")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get store", "error", err, "store_id", id)
		h.writeError(w, http.StatusInternalServerError, "failed to load store")
		return
	}
	if existing == nil {
		h.writeError(w, http.StatusNotFound, "store not found")
		return
	}

	var req storeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	store := domain.Store{
		ID:           id,
		Name:         req.Name,
		Location:     req.Location,
		Category:     req.Category,
		Timing:       req.Timing,
		Mobile:       req.Mobile,
		PasswordHash: existing.PasswordHash,
		IsActive:     req.IsActive,
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.logger.Error("failed to hash store password", "error", err)
			h.writeError(w, http.StatusInternalServerError, "failed to update store")
			return
		}
		store.PasswordHash = string(hash)
	}

	updated, err := h.repo.Update(r.Context(), &store)
	if err != nil {
		h.logger.Error("failed to update store", "error", err, "store_id", id)
		h.writeError(w, http.StatusInternalServerError, "failed to update store")
		return
	}
	if !updated {
		h.writeError(w, http.StatusNotFound, "store not found")
		return
	}

	h.logger.Info("store updated", "store_id", id)
	h.writeJSON(w, http.StatusOK, store)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing store id")
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete store", "error", err, "store_id", id)
		h.writeError(w, http.StatusInternalServerError, "failed to delete store")
		return
	}
	if !deleted {
		h.writeError(w, http.StatusNotFound, "store not found")
		return
	}

	h.logger.Info("store deleted", "store_id", id)
	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "store deleted"})
}

type verifyRequest struct {
	Password string `json:"password"`
}

// HandleVerify checks a store-admin password against the stored hash.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing store id")
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get store", "error", err, "store_id", id)
		h.writeError(w, http.StatusInternalServerError, "failed to load store")
		return
	}
	if store == nil {
		h.writeError(w, http.StatusNotFound, "store not found")
		return
	}
	if store.PasswordHash == "" {
		h.writeError(w, http.StatusUnauthorized, "store has no admin password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(store.PasswordHash), []byte(req.Password)); err != nil {
		h.writeError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "verified"})
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
