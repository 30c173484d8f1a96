package hash

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is 2^10 bcrypt rounds.
const DefaultCost = 10

var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// MaxPasswordBytes is the bcrypt input limit.
const MaxPasswordBytes = 72

func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return "", errors.New("hash: bcrypt cost out of range")
	}

	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

// CheckPassword refuses inputs bcrypt would silently truncate, so a
// stored 72-byte password does not also match every extension of it.
func CheckPassword(hash, password string) bool {
	if len(password) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
