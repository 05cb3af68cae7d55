package security

import "golang.org/x/crypto/bcrypt"

// bcrypt cost used for every stored credential.
const hashCost = 12

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.

func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// BcryptHasher adapts the package functions to the hasher interface the
// handlers depend on, so tests can swap in a fake.
type BcryptHasher struct{}

func (BcryptHasher) Hash(plain string) (string, error) {
	return HashPassword(plain)
}

func (BcryptHasher) Check(hash, plain string) error {
	return CheckPassword(hash, plain)
}
