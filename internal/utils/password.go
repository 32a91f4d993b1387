package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt digest of plain at the configured cost.
// The cost comes from config so environments can trade hashing time for
// throughput; bcrypt itself rejects values outside its supported range.
func HashPassword(plain string, cost int) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt digest.
// The comparison is constant time inside bcrypt.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
