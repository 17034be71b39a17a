package auth

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-quote/internal/common"
)

const stateCookie = "oauth_state"

// Handler exposes the Google OAuth login round trip.
type Handler struct {
	Service       *Service
	Logger        zerolog.Logger
	FrontendURL   string
	SessionCookie string
	CookieDomain  string
	CookieSecure  bool
}

// Login handles GET /auth/google.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := NewState()
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to start login", nil)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((5 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.Service.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles GET /auth/google/callback.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.Logger.Warn().Msg("oauth state mismatch")
		http.Redirect(w, r, h.FrontendURL, http.StatusTemporaryRedirect)
		return
	}
	clearCookie(w, stateCookie, h.CookieDomain, h.CookieSecure)

	user, err := h.Service.HandleCallback(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		h.Logger.Error().Err(err).Msg("oauth callback failed")
		http.Redirect(w, r, h.FrontendURL, http.StatusTemporaryRedirect)
		return
	}
	token, expiresAt, err := h.Service.SignSession(user.ID)
	if err != nil {
		h.Logger.Error().Err(err).Msg("sign session token")
		http.Redirect(w, r, h.FrontendURL, http.StatusTemporaryRedirect)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.SessionCookie,
		Value:    token,
		Path:     "/",
		Domain:   h.CookieDomain,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.FrontendURL, http.StatusTemporaryRedirect)
}

// Logout handles GET /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, h.SessionCookie, h.CookieDomain, h.CookieSecure)
	http.Redirect(w, r, h.FrontendURL, http.StatusTemporaryRedirect)
}

func clearCookie(w http.ResponseWriter, name, domain string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
