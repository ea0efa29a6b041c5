package handlers

import (
	"net/http"

	"github.com/ray-remotestate/swiftserve/models"
	"github.com/ray-remotestate/swiftserve/utils"
)

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in models.RestaurantSettings
	if err := utils.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	settings, err := h.svc.UpdateSettings(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, settings)
}
