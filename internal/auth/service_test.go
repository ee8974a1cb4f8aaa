package auth_test

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/auth"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = ginkgo.Describe("Auth Service", func() {
	var (
		repo    *mockUserRepository
		tokens  *auth.JWTTokenGenerator
		service *auth.Service
		ctx     context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		hasher := auth.NewHasher(bcrypt.MinCost)
		digest, err := hasher.Hash("correct_password")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		repo = &mockUserRepository{
			credentials: map[string]*auth.Credentials{
				"ana@acme.test": {UserID: 1, PasswordHash: digest, Status: "active"},
				"bo@acme.test":  {UserID: 2, PasswordHash: digest, Status: "disabled"},
			},
		}
		tokens = auth.NewJWTTokenGenerator(testSecret, time.Hour)
		service = auth.NewService(repo, hasher, tokens, quietLogger())
	})

	ginkgo.It("issues a bearer token for valid credentials", func() {
		result, err := service.Authenticate(ctx, auth.LoginDTO{Email: " Ana@Acme.test ", Password: "correct_password"})
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(result.TokenType).To(gomega.Equal("Bearer"))

		claims, err := tokens.ValidateToken(result.AccessToken)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(claims.Subject).To(gomega.Equal("1"))
	})

	ginkgo.It("gives the same error for a wrong password and an unknown email", func() {
		_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ana@acme.test", Password: "wrong"})
		gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidCredentials))

		_, err = service.Authenticate(ctx, auth.LoginDTO{Email: "nobody@acme.test", Password: "correct_password"})
		gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidCredentials))
	})

	ginkgo.It("pays for a bcrypt check even when the email is unknown", func() {
		hasher := &countingVerifier{Hasher: auth.NewHasher(bcrypt.MinCost)}
		service = auth.NewService(repo, hasher, tokens, quietLogger())

		_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "nobody@acme.test", Password: "correct_password"})
		gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidCredentials))
		gomega.Expect(hasher.digests).To(gomega.Equal([]string{hasher.DecoyDigest()}))

		cost, err := bcrypt.Cost([]byte(hasher.digests[0]))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(cost).To(gomega.Equal(bcrypt.MinCost))
	})

	ginkgo.It("refuses a disabled account", func() {
		_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "bo@acme.test", Password: "correct_password"})
		gomega.Expect(err).To(gomega.MatchError(apperrors.ErrUserInactive))
	})

	ginkgo.It("does not reveal a disabled account to a wrong password", func() {
		_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "bo@acme.test", Password: "wrong"})
		gomega.Expect(err).To(gomega.MatchError(apperrors.ErrInvalidCredentials))
	})

	ginkgo.It("requires both fields", func() {
		_, err := service.Authenticate(ctx, auth.LoginDTO{})
		appErr, ok := apperrors.IsAppError(err)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeValidation))
	})

	ginkgo.It("reports a store failure as an internal error", func() {
		repo.err = errors.New("connection reset")

		_, err := service.Authenticate(ctx, auth.LoginDTO{Email: "ana@acme.test", Password: "correct_password"})
		appErr, ok := apperrors.IsAppError(err)
		gomega.Expect(ok).To(gomega.BeTrue())
		gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeInternal))
	})
})

var _ = ginkgo.Describe("Hasher", func() {
	ginkgo.It("keeps one decoy digest that matches no password", func() {
		hasher := auth.NewHasher(bcrypt.MinCost)
		decoy := hasher.DecoyDigest()

		gomega.Expect(decoy).NotTo(gomega.BeEmpty())
		gomega.Expect(hasher.DecoyDigest()).To(gomega.Equal(decoy))
		gomega.Expect(hasher.Verify("", decoy)).To(gomega.BeFalse())
		gomega.Expect(hasher.Verify("correct_password", decoy)).To(gomega.BeFalse())
	})
})

// countingVerifier records every digest a password was checked against.
type countingVerifier struct {
	*auth.Hasher
	digests []string
}

func (c *countingVerifier) Verify(password, digest string) bool {
	c.digests = append(c.digests, digest)
	return c.Hasher.Verify(password, digest)
}
