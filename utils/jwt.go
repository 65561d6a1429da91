package utils

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	redis "github.com/redis/go-redis/v9"
)

// RedisClient is an optional shared Redis client used for token
// revocation. It stays nil when REDIS_ADDR is not configured, in which
// case tokens are only bounded by their expiry.
var RedisClient *redis.Client

func init() {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return
	}
	opts := &redis.Options{Addr: addr}
	if p := os.Getenv("REDIS_PASS"); p != "" {
		opts.Password = p
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		var dbn int
		_, _ = fmt.Sscanf(dbStr, "%d", &dbn)
		opts.DB = dbn
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(context.Background()).Err(); err != nil {
		fmt.Printf("warning: redis ping failed: %v\n", err)
		return
	}
	RedisClient = rc
}

type contextKey string

const (
	InvestorIDKey = contextKey("investorID")
	AdminIDKey    = contextKey("adminID")
	RequestIDKey  = contextKey("requestID")
)

func generateJTI(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateJWT issues an HMAC-signed access token. Admin tokens live 6
// hours, investor tokens 24.
func GenerateJWT(id int64, username, role string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	exp := 24 * time.Hour
	if role == "admin" {
		exp = 6 * time.Hour
	}

	now := time.Now()
	jti, err := generateJTI(16)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"id":       id,
		"username": username,
		"role":     role,
		"exp":      now.Add(exp).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      jti,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// RevokeToken blacklists the token's jti until its natural expiry.
// No-op when Redis is not configured.
func RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	if RedisClient == nil || jti == "" {
		return nil
	}
	return RedisClient.Set(ctx, "revoked:"+jti, "1", ttl).Err()
}

func tokenRevoked(ctx context.Context, jti string) bool {
	if RedisClient == nil || jti == "" {
		return false
	}
	n, err := RedisClient.Exists(ctx, "revoked:"+jti).Result()
	return err == nil && n > 0
}

// ValidateAccessToken parses and validates an access token, including
// the revocation check when Redis is configured.
func ValidateAccessToken(tokenStr string) (*jwt.Token, jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, nil, errors.New("JWT_SECRET is not set")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !token.Valid {
		return nil, nil, errors.New("invalid token")
	}

	if jti, _ := claims["jti"].(string); jti != "" {
		if tokenRevoked(context.Background(), jti) {
			return nil, nil, errors.New("token revoked")
		}
	}
	return token, claims, nil
}

// ClaimID extracts a numeric "id" claim regardless of the JSON number
// representation the parser produced.
func ClaimID(claims jwt.MapClaims) int64 {
	switch v := claims["id"].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case string:
		var n int64
		_, _ = fmt.Sscanf(v, "%d", &n)
		return n
	}
	return 0
}

// GetInvestorID returns the authenticated investor's ID from the
// request context.
func GetInvestorID(r *http.Request) (uint, bool) {
	v, ok := r.Context().Value(InvestorIDKey).(uint)
	return v, ok
}

// GetAdminID returns the authenticated admin's ID from the request
// context.
func GetAdminID(r *http.Request) (int64, bool) {
	v, ok := r.Context().Value(AdminIDKey).(int64)
	return v, ok
}
