// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/rs/cors"

	"github.com/taibuivan/mahamanga/internal/platform/constants"
)

// AppConfig is the slice of configuration CORS needs.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

// CORS allows every origin in development. Otherwise only HTTPS origins on
// the production domain (or a subdomain) and the configured extras pass.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	development := cfg.IsDevelopment()
	extra := cfg.AllowedOrigins()

	return cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return development || isFirstPartyOrigin(origin) || slices.Contains(extra, origin)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			constants.HeaderContentType,
			constants.HeaderAuthorization,
			constants.HeaderXRequestID,
			constants.HeaderReaderSession,
		},
		ExposedHeaders:   []string{constants.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler
}

func isFirstPartyOrigin(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme != "https" {
		return false
	}
	host := parsed.Hostname()
	return host == constants.ProductionOriginHost || strings.HasSuffix(host, "."+constants.ProductionOriginHost)
}
