package handlers

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const tempPasswordBytes = 12

func (h *Handlers) hashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// checkPassword compares given against stored. Rows written before hashing
// was introduced hold clear text; legacy reports that the caller should rehash.
func checkPassword(stored, given string) (ok, legacy bool) {
	if given == "" {
		return false, false
	}
	if isBcryptHash(stored) {
		return checkHash(stored, given), false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1, true
}

func generateTempPassword() (string, error) {
	b := make([]byte, tempPasswordBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func checkHash(hash, given string) bool {
	return given != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(given)) == nil
}
