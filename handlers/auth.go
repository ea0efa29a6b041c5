package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/swiftserve/models"
	"github.com/ray-remotestate/swiftserve/utils"
)

const refreshCookie = "refresh_token"

func (h *Handler) setRefreshCookie(w http.ResponseWriter, value string, expires time.Time, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    value,
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/api/auth",
		Expires:  expires,
		MaxAge:   maxAge,
	})
}

// Login exchanges a role password for an access token. The refresh token is
// set as an HTTP-only cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.opts.Issuer == nil {
		utils.RespondError(w, http.StatusNotFound, "authentication is disabled")
		return
	}

	var req struct {
		Role     models.Role `json:"role"`
		Password string      `json:"password"`
	}
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Role = models.Role(strings.ToLower(strings.TrimSpace(string(req.Role))))
	if req.Role == "" {
		req.Role = models.RoleStaff
	}
	if !req.Role.IsValid() || req.Password == "" {
		writeError(w, r, models.Invalid("role must be staff or admin and password is required"))
		return
	}

	hash := h.opts.StaffPasswordHash
	if req.Role == models.RoleAdmin {
		hash = h.opts.AdminPasswordHash
	}
	if !utils.CheckPassword(hash, req.Password) {
		logrus.WithField("role", req.Role).Warn("failed login")
		utils.RespondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	accessToken, refreshToken, err := h.opts.Issuer.GenerateTokens(string(req.Role), req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setRefreshCookie(w, refreshToken, time.Now().Add(utils.RefreshTokenTTL), 0)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"access_token": accessToken,
		"role":         req.Role,
		"expires_in":   int(utils.AccessTokenTTL.Seconds()),
		"message":      "Successfully logged in",
	})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if h.opts.Issuer == nil {
		utils.RespondError(w, http.StatusNotFound, "authentication is disabled")
		return
	}
	cookie, err := r.Cookie(refreshCookie)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "refresh token missing")
		return
	}
	claims, err := h.opts.Issuer.ParseRefresh(cookie.Value)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	accessToken, refreshToken, err := h.opts.Issuer.GenerateTokens(claims.Subject, claims.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setRefreshCookie(w, refreshToken, time.Now().Add(utils.RefreshTokenTTL), 0)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"access_token": accessToken,
		"role":         claims.Role,
		"expires_in":   int(utils.AccessTokenTTL.Seconds()),
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setRefreshCookie(w, "", time.Unix(0, 0), -1)
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}
