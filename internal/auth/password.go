package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashAPIKey hashes a key for API_KEY_HASH.
func HashAPIKey(key string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// KeyVerifier checks static API keys, either plain or bcrypt-hashed.
type KeyVerifier struct {
	plain []byte
	hash  []byte
}

// NewKeyVerifier builds a verifier. Both values empty accepts nothing.
func NewKeyVerifier(plain, hash string) *KeyVerifier {
	v := &KeyVerifier{}
	if plain != "" {
		v.plain = []byte(plain)
	}
	if hash != "" {
		v.hash = []byte(hash)
	}
	return v
}

// Configured reports whether any key is set.
func (v *KeyVerifier) Configured() bool {
	return v != nil && (v.plain != nil || v.hash != nil)
}

// Verify reports whether key matches the plain key or the hash.
func (v *KeyVerifier) Verify(key string) bool {
	if !v.Configured() || key == "" {
		return false
	}
	if v.plain != nil && subtle.ConstantTimeCompare(v.plain, []byte(key)) == 1 {
		return true
	}
	if v.hash != nil && bcrypt.CompareHashAndPassword(v.hash, []byte(key)) == nil {
		return true
	}
	return false
}
