package middleware

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"github.com/ihiteshgupta/learnflow/pkg/requestcontext"
)

// ClientMetadata extracts the User-Agent header and a parsed device display
// name into the request context. The device name shows up in login audit logs
// so suspicious attempts can be told apart from a learner's usual browser.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if ua := r.Header.Get("User-Agent"); ua != "" {
			ctx = requestcontext.WithUserAgent(ctx, ua)
			ctx = requestcontext.WithDeviceName(ctx, deviceDisplayName(ua))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// deviceDisplayName extracts a human-readable device name from a User-Agent
// string, in "Browser on OS" form (e.g. "Chrome on macOS").
func deviceDisplayName(userAgentString string) string {
	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	browser = strings.TrimSpace(browser)
	if browser == "" {
		browser = "Unknown Browser"
	}

	os := strings.TrimSpace(ua.OSInfo().Name)
	if os == "" {
		os = "Unknown OS"
	}

	return browser + " on " + os
}
