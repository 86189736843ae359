package util

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

const dummyPassword = "todo-dummy-password"

// Hasher produces and checks salted bcrypt digests. Plaintexts are reduced
// with SHA-256 first so passwords longer than bcrypt's 72-byte input limit
// are accepted and fully significant.
type Hasher struct {
	Cost int

	// dummy is compared against when the account does not exist so that
	// unknown emails and wrong passwords take the same time.
	dummy []byte
}

func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	h := Hasher{Cost: cost}
	h.dummy, _ = bcrypt.GenerateFromPassword(prehash(dummyPassword), cost)
	return h
}

func (h Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(prehash(plaintext), h.cost())
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), prehash(plaintext)) == nil
}

// VerifyDummy spends one comparison's worth of work and always fails.
func (h Hasher) VerifyDummy(plaintext string) bool {
	dummy := h.dummy
	if dummy == nil {
		dummy, _ = bcrypt.GenerateFromPassword(prehash(dummyPassword), h.cost())
	}
	_ = bcrypt.CompareHashAndPassword(dummy, prehash(plaintext))
	return false
}

func (h Hasher) cost() int {
	if h.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return h.Cost
}

// prehash yields 44 bytes, inside bcrypt's input limit.
func prehash(plaintext string) []byte {
	sum := sha256.Sum256([]byte(plaintext))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
