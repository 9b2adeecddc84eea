package security

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plain text password with bcrypt. The salt is
// generated per call by bcrypt itself.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.

func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// hashed at startup so the dummy compare below burns the same cost as a
// real verification
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("inkwell-timing-pad"), bcrypt.DefaultCost)

	if err != nil {
		panic(err)
	}

	return h
}()

// DummyCompare runs a full bcrypt comparison against a throwaway hash.
// Login calls this when the email is unknown, so that path takes roughly
// as long as a real password check and does not leak account existence
// through timing.
func DummyCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
