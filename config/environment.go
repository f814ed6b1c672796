package config

import "os"

// Environment holds the process settings read once at startup. Backend
// selection (STORAGE, DB_URL, SQLITE_PATH) lives in NewEngine instead so
// tests can construct engines under different settings within one process.
type Environment struct {
	// IsDevelopment is true when no COOKIE_DOMAIN is configured, which is
	// how local runs against the Expo client look.
	IsDevelopment bool
	// Domain scopes the auth_token session cookie.
	Domain string
	// CookieSecure sets the Secure flag on the session cookie; off in
	// development so the cookie works over plain http.
	CookieSecure bool
}

var Env = load()

func load() Environment {
	domain := os.Getenv("COOKIE_DOMAIN")
	isDev := domain == ""
	if isDev {
		domain = "localhost"
	}
	return Environment{
		IsDevelopment: isDev,
		Domain:        domain,
		CookieSecure:  !isDev,
	}
}

// JWTConfigured reports whether the session-token secret is present. Read
// per call, not in load: package init runs before main loads .env, so a
// startup check against a cached value would miss secrets from there.
func JWTConfigured() bool {
	return os.Getenv("JWT_SECRET_KEY") != ""
}
