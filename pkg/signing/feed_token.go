package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FeedScopeAll marks a feed covering every team member.
const FeedScopeAll = "*"

// FeedTokenSigner issues and verifies tokens granting read access to a calendar feed.
type FeedTokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewFeedTokenSigner constructs a signer with the provided secret and TTL.
func NewFeedTokenSigner(secret string, ttl time.Duration) *FeedTokenSigner {
	if ttl <= 0 {
		ttl = 90 * 24 * time.Hour
	}
	return &FeedTokenSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate returns a token bound to an instructor id (or FeedScopeAll).
func (s *FeedTokenSigner) Generate(instructorID string) (string, time.Time, error) {
	if instructorID == "" {
		return "", time.Time{}, fmt.Errorf("instructor scope required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).UTC()
	scope := base64.RawURLEncoding.EncodeToString([]byte(instructorID))
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	token := strings.Join([]string{scope, ts, s.sign(scope, ts)}, ".")
	return token, expiresAt, nil
}

// Parse validates a token and returns the instructor scope it grants.
func (s *FeedTokenSigner) Parse(token string) (string, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("invalid token format")
	}
	scope, ts, signature := parts[0], parts[1], parts[2]

	if !hmac.Equal([]byte(s.sign(scope, ts)), []byte(signature)) {
		return "", fmt.Errorf("invalid token signature")
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid timestamp")
	}
	if s.now().After(time.Unix(expUnix, 0)) {
		return "", fmt.Errorf("token expired")
	}
	raw, err := base64.RawURLEncoding.DecodeString(scope)
	if err != nil {
		return "", fmt.Errorf("decode scope: %w", err)
	}
	return string(raw), nil
}

func (s *FeedTokenSigner) sign(scope, ts string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(scope + "|" + ts))
	return hex.EncodeToString(mac.Sum(nil))
}
