// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/mahamanga/internal/platform/constants"
	"github.com/taibuivan/mahamanga/internal/platform/ctxutil"
	"github.com/taibuivan/mahamanga/internal/platform/sec"
)

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

// # Fakes

type staticConfig struct {
	development bool
	origins     []string
}

func (cfg staticConfig) IsDevelopment() bool      { return cfg.development }
func (cfg staticConfig) AllowedOrigins() []string { return cfg.origins }

type fakeVerifier struct {
	claims *sec.AuthClaims
}

func (verifier fakeVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return verifier.claims, nil
}

// # Tests

func TestIsFirstPartyOrigin(t *testing.T) {
	assert.True(t, isFirstPartyOrigin("https://mahamanga.app"))
	assert.True(t, isFirstPartyOrigin("https://read.mahamanga.app"))
	assert.False(t, isFirstPartyOrigin("http://mahamanga.app"))
	assert.False(t, isFirstPartyOrigin("https://evilmahamanga.app"))
	assert.False(t, isFirstPartyOrigin("https://mahamanga.app.evil.example"))
}

func TestCORS_Production(t *testing.T) {
	handler := CORS(staticConfig{origins: []string{"https://partner.example"}})(okHandler)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://mahamanga.app", true},
		{"https://partner.example", true},
		{"https://stranger.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/api/v1/comics/trending", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := RateLimit(ctx, 1, 2)(okHandler)

	send := func(peer, spoofed string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = peer + ":40000"
		request.Header.Set(constants.HeaderXRealIP, spoofed)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	// Rotating the header does not buy a fresh bucket.
	assert.Equal(t, http.StatusOK, send("198.51.100.1", "203.0.113.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.1", "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, send("198.51.100.1", "203.0.113.3"))

	// Buckets are per client.
	assert.Equal(t, http.StatusOK, send("198.51.100.2", ""))
}

func TestClientIP(t *testing.T) {
	trusted := []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("fd00::/8"),
	}

	tests := []struct {
		name      string
		peer      string
		realIP    string
		forwarded string
		want      string
	}{
		{name: "direct_peer", peer: "192.0.2.10:5555", want: "192.0.2.10"},
		{name: "untrusted_peer_ignores_real_ip", peer: "192.0.2.10:5555", realIP: "203.0.113.1", want: "192.0.2.10"},
		{name: "untrusted_peer_ignores_forwarded", peer: "192.0.2.10:5555", forwarded: "203.0.113.9", want: "192.0.2.10"},
		{name: "trusted_peer_real_ip", peer: "10.0.0.5:5555", realIP: "203.0.113.1", forwarded: "198.51.100.4", want: "203.0.113.1"},
		{name: "trusted_peer_nearest_untrusted_hop", peer: "10.0.0.5:5555", forwarded: "6.6.6.6, 203.0.113.9, 10.0.0.7", want: "203.0.113.9"},
		{name: "trusted_peer_all_hops_trusted", peer: "10.0.0.5:5555", forwarded: "10.1.1.1, 10.0.0.7", want: "10.1.1.1"},
		{name: "trusted_peer_garbage_hop", peer: "10.0.0.5:5555", forwarded: "not-an-ip", want: "10.0.0.5"},
		{name: "trusted_peer_no_headers", peer: "10.0.0.5:5555", want: "10.0.0.5"},
		{name: "trusted_ipv6_peer", peer: "[fd00::1]:5555", realIP: "2001:db8::7", want: "2001:db8::7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := ClientIP(trusted)(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
				seen = RealIP(request)
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.peer
			if tt.realIP != "" {
				request.Header.Set(constants.HeaderXRealIP, tt.realIP)
			}
			if tt.forwarded != "" {
				request.Header.Set(constants.HeaderXForwardedFor, tt.forwarded)
			}

			handler.ServeHTTP(httptest.NewRecorder(), request)
			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestRealIP_WithoutClientIPUsesPeer(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.10:5555"
	request.Header.Set(constants.HeaderXRealIP, "203.0.113.1")
	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.9")

	assert.Equal(t, "192.0.2.10", RealIP(request))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "client-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "client-id", seen)
}

func TestAuthenticate(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "user-1", Role: "member"}

	var got *sec.AuthClaims
	protected := Authenticate(fakeVerifier{claims: claims})(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		got = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		status int
		claims *sec.AuthClaims
	}{
		{"anonymous", "", http.StatusOK, nil},
		{"valid", "Bearer good", http.StatusOK, claims},
		{"invalid_token", "Bearer bad", http.StatusUnauthorized, nil},
		{"wrong_scheme", "Basic good", http.StatusUnauthorized, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = nil
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set(constants.HeaderAuthorization, tt.header)
			}
			recorder := httptest.NewRecorder()

			protected.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.claims, got)
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(okHandler)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "user-1"}))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestPanicRecovery(t *testing.T) {
	handler := PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestPanicRecovery_AbortHandlerPropagates(t *testing.T) {
	handler := PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestStructuredLogger_InjectsRequestLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	handler := RequestID()(StructuredLogger(logger)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctxutil.GetLogger(request.Context()).Info("inside_handler")
		writer.WriteHeader(http.StatusTeapot)
	})))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/comics", nil)
	request.Header.Set(constants.HeaderXRequestID, "rid-1")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	output := buffer.String()
	assert.Contains(t, output, `"msg":"inside_handler"`)
	assert.Contains(t, output, `"request_id":"rid-1"`)
	assert.Contains(t, output, `"status":418`)
	assert.Contains(t, output, `"level":"WARN"`)
}
