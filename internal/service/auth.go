package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// RoleOperator marks tokens allowed to run cross-user jobs.
const RoleOperator = "operator"

// AuthService issues and verifies the bearer tokens that identify API callers. Users are
// managed elsewhere; a token only carries the user id and an optional role.
type AuthService struct {
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

func (s *AuthService) GenerateJWT(userID string) (string, error) {
	return s.generate(userID, "")
}

// GenerateOperatorJWT issues a token carrying the operator role.
func (s *AuthService) GenerateOperatorJWT(userID string) (string, error) {
	return s.generate(userID, RoleOperator)
}

func (s *AuthService) generate(userID, role string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}
	if role != "" {
		claims["role"] = role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// Identify verifies tokenString and returns its user_id and role claims.
func (s *AuthService) Identify(tokenString string) (userID, role string, err error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return "", "", err
	}

	userID, _ = claims["user_id"].(string)
	if userID == "" {
		return "", "", fmt.Errorf("%w: missing user_id claim", ErrInvalidToken)
	}
	role, _ = claims["role"].(string)

	return userID, role, nil
}

// UserID verifies tokenString and returns its user_id claim.
func (s *AuthService) UserID(tokenString string) (string, error) {
	userID, _, err := s.Identify(tokenString)
	return userID, err
}
