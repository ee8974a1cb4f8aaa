package auth

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	Cost int

	decoyOnce sync.Once
	decoy     string
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{Cost: cost}
}

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *Hasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// DecoyDigest is a digest of a random secret at the configured cost. Checking
// a password against it costs as much as a real check and never succeeds.
func (h *Hasher) DecoyDigest() string {
	h.decoyOnce.Do(func() {
		digest, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), h.Cost)
		if err == nil {
			h.decoy = string(digest)
		}
	})
	return h.decoy
}
