package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost of 8 keeps login fast on small nodes
const bcryptCost = 8

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks if the provided password matches the hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Operators holds the configured operator accounts, name to bcrypt hash.
type Operators map[string]string

// Authenticate reports whether name exists and password matches its hash.
func (o Operators) Authenticate(name, password string) bool {
	hash, ok := o[name]
	if !ok {
		// compare anyway so unknown names cost the same as wrong passwords
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return VerifyPassword(hash, password)
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("unused"), bcryptCost)
