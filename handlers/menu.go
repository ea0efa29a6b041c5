package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ray-remotestate/swiftserve/models"
	"github.com/ray-remotestate/swiftserve/utils"
)

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListMenu(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in models.MenuItemInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.CreateMenuItem(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in models.MenuItemInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	item, err := h.svc.UpdateMenuItem(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteMenuItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Menu item deleted successfully"})
}

func (h *Handler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.ToggleAvailability(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) BulkUpdatePrices(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Percentage *float64 `json:"percentage"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Percentage == nil {
		writeError(w, r, models.Invalid("percentage is required"))
		return
	}
	updated, err := h.svc.BulkUpdatePrices(r.Context(), *req.Percentage)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
