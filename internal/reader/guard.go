// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reader

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/taibuivan/mahamanga/internal/platform/constants"
)

// # View Guard

// ViewGuard admits the first view of a chapter per reading session.
type ViewGuard interface {
	// Acquire reports whether key was free and is now taken.
	Acquire(ctx context.Context, key string) (bool, error)
}

// redisViewGuard claims keys with SET NX and lets them expire after ttl.
type redisViewGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewGuard returns a Redis-backed [ViewGuard].
func NewViewGuard(client *redis.Client, ttl time.Duration) ViewGuard {
	return &redisViewGuard{client: client, ttl: ttl}
}

// Acquire implements [ViewGuard].
func (guard *redisViewGuard) Acquire(ctx context.Context, key string) (bool, error) {
	acquired, err := guard.client.SetNX(ctx, constants.RedisPrefixViewGuard+key, 1, guard.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis_view_guard_failed: %w", err)
	}
	return acquired, nil
}

// # Session Identity

// Fingerprint hashes its parts into a short, fixed-length identifier.
// Raw IPs and user agents never reach Redis.
func Fingerprint(parts ...string) string {
	sum := blake2b.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:16])
}

// SessionKey identifies a reading session for one chapter.
//
// Precedence: an explicit session token from the client, then the
// authenticated user, then an anonymous fingerprint of IP and user agent.
func SessionKey(chapterID, sessionToken, userID, ip, userAgent string) string {
	switch {
	case sessionToken != "":
		return chapterID + ":s:" + Fingerprint(sessionToken)
	case userID != "":
		return chapterID + ":u:" + userID
	default:
		return chapterID + ":a:" + Fingerprint(ip, userAgent)
	}
}
