package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a login password at the default bcrypt cost.
func HashPassword(s string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
}

// ComparePassword checks a plaintext candidate against a stored hash.
func ComparePassword(hashed string, normal string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(normal))
}
