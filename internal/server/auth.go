package server

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sri-shubham/Everclimb/internal/config"
	"github.com/sri-shubham/Everclimb/pkg/models"
)

// ErrUnauthorized is returned when a request carries no valid token and the
// server requires one.
var ErrUnauthorized = errors.New("unauthorized")

// JWTValidator handles JWT token validation
type JWTValidator struct {
	issuer    string
	publicKey *ecdsa.PublicKey
}

// Claims represents the JWT claims a feed client presents
type Claims struct {
	Username  string `json:"username"`
	Activated int64  `json:"activated"`
	jwt.RegisteredClaims
}

// NewJWTValidator loads the ECDSA public key named in cfg.
func NewJWTValidator(cfg config.JWTConfig) (*JWTValidator, error) {
	keyData, err := os.ReadFile(cfg.PublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	key, err := ParsePublicKey(keyData)
	if err != nil {
		return nil, err
	}
	return &JWTValidator{issuer: cfg.Issuer, publicKey: key}, nil
}

// ParsePublicKey decodes a PEM-encoded PKIX ECDSA public key.
func ParsePublicKey(keyData []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(keyData)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}
	pubKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	ecdsaKey, ok := pubKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not ECDSA")
	}
	return ecdsaKey, nil
}

// ValidateToken validates a JWT token and returns the climber it names
func (v *JWTValidator) ValidateToken(tokenString string) (*models.Climber, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"ES256", "ES384", "ES512"})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return v.publicKey, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	climber := &models.Climber{
		ID:        claims.Subject,
		Username:  claims.Username,
		Activated: claims.Activated,
	}
	if climber.IsBanned() {
		return nil, fmt.Errorf("user is banned")
	}
	if !climber.IsActive() {
		return nil, fmt.Errorf("user not activated")
	}
	return climber, nil
}

// extractToken finds a bearer token in the request
func extractToken(r *http.Request) string {
	// Sec-WebSocket-Protocol: "access_token, <token>"
	if protocols := r.Header.Get("Sec-WebSocket-Protocol"); protocols != "" {
		parts := strings.Split(protocols, ",")
		if len(parts) == 2 && strings.TrimSpace(parts[0]) == "access_token" {
			return strings.TrimSpace(parts[1])
		}
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return token
	}
	return r.URL.Query().Get("token")
}

// authenticate resolves the caller. Without a validator every caller is
// anonymous. A present but invalid token is always rejected.
func (s *Server) authenticate(r *http.Request) (*models.Climber, error) {
	token := extractToken(r)
	if token == "" || s.jwt == nil {
		if s.cfg.JWT.Required {
			return nil, ErrUnauthorized
		}
		return models.Anonymous(), nil
	}
	climber, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return climber, nil
}
