package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is what a token asserts about its bearer.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Role   string
}

type Authenticator interface {
	GenerateToken(id Identity) (string, error)
	ValidateToken(token string) (*jwt.Token, error)
}
