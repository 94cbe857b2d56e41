// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values shared across the reader API:
// server timings, rate limit sizing, header names and Redis key prefixes.
// Anything an operator may want to tune lives in config instead.
package constants

import "time"

const (
	AppName    = "mahamanga-api"
	AppVersion = "0.1.0-dev"

	// AuthIssuer is the "iss" every accepted access token must carry.
	AuthIssuer = "mahamanga.app"

	// ProductionOriginHost and its subdomains are always allowed by CORS.
	ProductionOriginHost = "mahamanga.app"
)

// # Server Timing

const (
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute

	// GlobalRequestTimeout caps a request from routing to the last byte.
	GlobalRequestTimeout = 30 * time.Second

	ShutdownTimeout = 30 * time.Second

	// SideEffectTimeout bounds the detached writes made when a view is recorded.
	SideEffectTimeout = 5 * time.Second
)

// # Rate Limiting

const (
	DefaultRateLimitRPS   = 100.0
	DefaultRateLimitBurst = 150

	RateLimitCleanupInterval = time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # HTTP

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRequestID    = "X-Request-ID"

	// HeaderReaderSession identifies one reading tab for view deduplication.
	HeaderReaderSession = "X-Reader-Session"

	ContentTypeJSONUTF8 = "application/json; charset=utf-8"
)

// JSON keys used outside the response envelopes.
const (
	FieldItems  = "items"
	FieldTotal  = "total"
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Keys

const (
	RedisPrefixProgress  = "library:progress:"
	RedisPrefixViewGuard = "reader:view_guard:"
)
