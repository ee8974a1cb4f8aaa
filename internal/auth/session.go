package auth

import (
	stderrors "errors"
	"net/http"

	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/frahmantamala/docdraft/internal/transport"
)

var ErrNoSession = access.ErrNoSession

// SessionResolver reads the access token of a request from the bearer
// header, or failing that from the session cookie, and loads the user fresh.
type SessionResolver struct {
	tokens     TokenGenerator
	identities IdentityRepository
	cookieName string
}

func NewSessionResolver(tokens TokenGenerator, identities IdentityRepository, cookieName string) *SessionResolver {
	return &SessionResolver{
		tokens:     tokens,
		identities: identities,
		cookieName: cookieName,
	}
}

var _ access.SessionResolver = (*SessionResolver)(nil)

func (s *SessionResolver) ResolveSession(r *http.Request) (*access.Identity, error) {
	token := s.tokenFromRequest(r)
	if token == "" {
		return nil, ErrNoSession
	}

	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrNoSession
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrNoSession
	}

	identity, err := s.identities.GetIdentity(r.Context(), userID)
	if err != nil {
		if stderrors.Is(err, ErrUnknownUser) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	return identity, nil
}

func (s *SessionResolver) tokenFromRequest(r *http.Request) string {
	if token := transport.ExtractTokenFromHeader(r); token != "" {
		return token
	}
	if s.cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
