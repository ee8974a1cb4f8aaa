package auth_test

import (
	"time"

	"github.com/frahmantamala/docdraft/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	ginkgo.It("round-trips the user id through the subject", func() {
		gen := auth.NewJWTTokenGenerator(testSecret, time.Hour)

		token, expiresAt, err := gen.GenerateAccessToken(42)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(expiresAt).To(gomega.BeTemporally("~", time.Now().Add(time.Hour), 5*time.Second))

		claims, err := gen.ValidateToken(token)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(claims.Subject).To(gomega.Equal("42"))

		userID, err := claims.UserID()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(userID).To(gomega.Equal(int64(42)))
	})

	ginkgo.It("reports an expired token", func() {
		gen := auth.NewJWTTokenGenerator(testSecret, -time.Minute)
		token, _, err := gen.GenerateAccessToken(42)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = gen.ValidateToken(token)
		gomega.Expect(err).To(gomega.MatchError(auth.ErrTokenExpired))
	})

	ginkgo.It("rejects a token signed with another secret", func() {
		other := auth.NewJWTTokenGenerator("ffffffffffffffffffffffffffffffff", time.Hour)
		token, _, err := other.GenerateAccessToken(42)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = auth.NewJWTTokenGenerator(testSecret, time.Hour).ValidateToken(token)
		gomega.Expect(err).To(gomega.MatchError(auth.ErrInvalidToken))
	})

	ginkgo.It("rejects an unsigned token", func() {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "42"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		_, err = auth.NewJWTTokenGenerator(testSecret, time.Hour).ValidateToken(token)
		gomega.Expect(err).To(gomega.MatchError(auth.ErrInvalidToken))
	})

	ginkgo.It("rejects garbage", func() {
		_, err := auth.NewJWTTokenGenerator(testSecret, time.Hour).ValidateToken("not-a-token")
		gomega.Expect(err).To(gomega.MatchError(auth.ErrInvalidToken))
	})
})
