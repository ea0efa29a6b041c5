// Package handlers exposes the ordering service over JSON HTTP.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/assistant"
	"github.com/ray-remotestate/swiftserve/models"
	"github.com/ray-remotestate/swiftserve/realtime"
	"github.com/ray-remotestate/swiftserve/services"
	"github.com/ray-remotestate/swiftserve/utils"
)

// StatsReporter reports WebSocket hub counters for the health endpoint.
type StatsReporter interface {
	Stats() realtime.Stats
}

type Options struct {
	// Issuer is nil when staff authentication is disabled.
	Issuer            *utils.TokenIssuer
	StaffPasswordHash string
	AdminPasswordHash string
	SecureCookies     bool

	Database string
	Realtime StatsReporter
	Pick     assistant.Picker
}

type Handler struct {
	svc  *services.Service
	opts Options
}

func New(svc *services.Service, opts Options) *Handler {
	if opts.Pick == nil {
		opts.Pick = assistant.RandomPick
	}
	return &Handler{svc: svc, opts: opts}
}

// writeError maps service errors onto status codes. Anything unrecognised is
// logged and reported as a 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, utils.ErrBadJSON):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrValidation):
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrInvalidTransition):
		utils.RespondError(w, http.StatusConflict, err.Error())
	default:
		logrus.WithError(err).WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Error("request failed")
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// intQuery parses an optional integer query parameter; missing means 0.
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.Invalid("%s must be an integer", name)
	}
	return n, nil
}
