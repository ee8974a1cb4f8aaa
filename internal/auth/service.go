package auth

import (
	"context"
	stderrors "errors"
	"log/slog"

	errors "github.com/frahmantamala/docdraft/internal"
	userDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/user"
)

// PasswordVerifier checks passwords against stored digests. DecoyDigest
// stands in for the digest of an account that does not exist.
type PasswordVerifier interface {
	Verify(password, digest string) bool
	DecoyDigest() string
}

// Service is the main auth service with dependencies
type Service struct {
	credentials    CredentialsRepository
	hasher         PasswordVerifier
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

func NewService(credentials CredentialsRepository, hasher PasswordVerifier, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		credentials:    credentials,
		hasher:         hasher,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Authenticate checks the password and issues an access token. Unknown email
// and wrong password are the same error and cost the same bcrypt work; a
// disabled account is only reported once the password matched.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.credentials.GetCredentialsByEmail(ctx, dto.Email)
	if err != nil {
		if stderrors.Is(err, ErrUnknownUser) {
			s.hasher.Verify(dto.Password, s.hasher.DecoyDigest())
			s.logger.Warn("login failed", "reason", "unknown email")
			return AuthTokens{}, errors.ErrInvalidCredentials
		}
		s.logger.Error("failed to load credentials", "error", err)
		return AuthTokens{}, errors.NewInternalError("failed to authenticate", err)
	}

	if !s.hasher.Verify(dto.Password, creds.PasswordHash) {
		s.logger.Warn("login failed", "reason", "wrong password", "user_id", creds.UserID)
		return AuthTokens{}, errors.ErrInvalidCredentials
	}

	if creds.Status != userDatamodel.StatusActive {
		s.logger.Warn("login refused", "reason", "inactive", "user_id", creds.UserID)
		return AuthTokens{}, errors.ErrUserInactive
	}

	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(creds.UserID)
	if err != nil {
		s.logger.Error("failed to sign access token", "user_id", creds.UserID, "error", err)
		return AuthTokens{}, errors.NewInternalError("failed to authenticate", err)
	}

	s.logger.Info("user logged in", "user_id", creds.UserID)
	return AuthTokens{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}
