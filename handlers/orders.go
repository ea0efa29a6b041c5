package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/ray-remotestate/swiftserve/models"
	"github.com/ray-remotestate/swiftserve/utils"
)

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in models.CreateOrderInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.svc.CreateOrder(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, order)
}

// ListOrders accepts ?status=, ?table= and ?active=true.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	table, err := intQuery(r, "table")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	filter := models.OrderFilter{
		Status: models.OrderStatus(strings.ToLower(q.Get("status"))),
		Table:  table,
		Active: q.Get("active") == "true",
	}
	orders, err := h.svc.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.svc.UpdateOrderStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.svc.OrderHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, history)
}

func (h *Handler) KitchenBoard(w http.ResponseWriter, r *http.Request) {
	table, err := intQuery(r, "table")
	if err != nil {
		writeError(w, r, err)
		return
	}
	board, err := h.svc.KitchenBoard(r.Context(), table)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, board)
}

func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Analytics(r.Context(), r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, summary)
}
