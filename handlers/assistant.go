package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ray-remotestate/swiftserve/assistant"
	"github.com/ray-remotestate/swiftserve/models"
	"github.com/ray-remotestate/swiftserve/utils"
)

func (h *Handler) Customize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomText string `json:"custom_text"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"kitchen_instruction": assistant.Customize(req.CustomText),
	})
}

func (h *Handler) SuggestAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	suggestion, err := h.svc.SuggestAction(r.Context(), strings.TrimSpace(req.OrderID), h.opts.Pick)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"suggestion": suggestion})
}

func (h *Handler) MenuRecommendations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MenuItems []models.MenuItem `json:"menu_items"`
	}
	if err := utils.DecodeOptionalJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ids, err := h.svc.Recommendations(r.Context(), req.MenuItems)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string][]string{"recommendations": ids})
}

func (h *Handler) Features(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, assistant.Capabilities())
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":    "healthy",
		"service":   "SwiftServe",
		"database":  h.opts.Database,
		"auth":      h.opts.Issuer != nil,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.opts.Realtime != nil {
		resp["websocket"] = h.opts.Realtime.Stats()
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}
