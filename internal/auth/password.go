package auth

import "golang.org/x/crypto/bcrypt"

// HashSenha hashes a plaintext password with the configured cost.
func HashSenha(senha string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(senha), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompararSenha verifies a password against its hashed value.
func CompararSenha(hash, senha string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha))
}
