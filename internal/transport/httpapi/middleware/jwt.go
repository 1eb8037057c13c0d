package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kislikjeka/solsplit/internal/platform/wallet"
)

// ContextKey is the type for context keys
type ContextKey string

// WalletKey is the context key for the authenticated wallet identity
const WalletKey ContextKey = "wallet"

// sessionTTL bounds how long a wallet-connect session token is valid
const sessionTTL = 24 * time.Hour

// Claims represents the JWT claims of a wallet session
type Claims struct {
	Wallet string `json:"wallet"`
	jwt.RegisteredClaims
}

// JWTService handles session token generation and validation
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
	}
}

// GenerateToken issues a session token for a connected wallet
func (s *JWTService) GenerateToken(id wallet.Identity) (string, error) {
	now := time.Now()

	claims := &Claims{
		Wallet: id.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "solsplit",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a session token and returns the wallet identity
func (s *JWTService) ValidateToken(tokenString string) (wallet.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Pin the signing method to prevent algorithm confusion
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		return wallet.None, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return wallet.None, fmt.Errorf("invalid token claims")
	}

	id, err := wallet.Parse(claims.Wallet)
	if err != nil {
		return wallet.None, fmt.Errorf("invalid wallet in token: %w", err)
	}

	return id, nil
}

// JWTMiddleware creates a middleware that validates session tokens
func JWTMiddleware(jwtService *JWTService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			id, err := jwtService.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), WalletKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetWalletFromContext extracts the wallet identity from the request context
func GetWalletFromContext(ctx context.Context) (wallet.Identity, bool) {
	id, ok := ctx.Value(WalletKey).(wallet.Identity)
	return id, ok
}
