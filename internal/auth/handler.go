package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/docdraft/internal/transport"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
}

type Handler struct {
	*transport.BaseHandler
	Service    ServiceAPI
	CookieName string
	Secure     bool
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI, cookieName string, secure bool) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
		CookieName:  cookieName,
		Secure:      secure,
	}
}

// Login handles POST /auth/login. The token is returned in the body and, when
// a cookie name is configured, also set as an HttpOnly cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	if h.CookieName != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     h.CookieName,
			Value:    tokens.AccessToken,
			Path:     "/",
			Expires:  tokens.ExpiresAt,
			MaxAge:   int(time.Until(tokens.ExpiresAt).Seconds()),
			HttpOnly: true,
			Secure:   h.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	h.WriteJSON(w, http.StatusOK, tokens)
}
