package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidClaims = errors.New("token claims are invalid")

type JWTAuthenticator struct {
	secret string
	aud    string
	iss    string
	exp    time.Duration
	now    func() time.Time
}

func NewJWTAuthenticator(secret, aud, iss string, exp time.Duration) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret, aud: aud, iss: iss, exp: exp, now: time.Now}
}

// GenerateToken signs an HS256 token carrying the user's id, email, name and role.
func (a *JWTAuthenticator) GenerateToken(id Identity) (string, error) {
	now := a.now()
	claims := jwt.MapClaims{
		"sub":   id.UserID.String(),
		"email": id.Email,
		"name":  id.Name,
		"role":  id.Role,
		"exp":   now.Add(a.exp).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"iss":   a.iss,
		"aud":   a.aud,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (a *JWTAuthenticator) ValidateToken(token string) (*jwt.Token, error) {
	return jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(a.iss),
		jwt.WithAudience(a.aud),
	)
}

// IdentityFromToken reads the claims written by GenerateToken.
func IdentityFromToken(token *jwt.Token) (Identity, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return Identity{}, ErrInvalidClaims
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Identity{}, ErrInvalidClaims
	}

	id := Identity{UserID: userID}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	id.Role, _ = claims["role"].(string)
	return id, nil
}
