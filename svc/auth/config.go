package auth

import "time"

// ActiveAccountCookie remembers the account a user last switched to.
const ActiveAccountCookie = "preferred-active-account-id"

// ActiveAccountCookieMaxAge keeps the preference for ten years.
const ActiveAccountCookieMaxAge = 10 * 365 * 24 * time.Hour

type Config struct {
	JWTSecret   string        `env:"AUTH_JWT_SECRET,required"`
	JWTIssuer   string        `env:"AUTH_JWT_ISSUER"`
	JWTAudience string        `env:"AUTH_JWT_AUDIENCE" envDefault:"authenticated"`
	JWTLeeway   time.Duration `env:"AUTH_JWT_LEEWAY" envDefault:"30s"`
	TokenCookie string        `env:"AUTH_TOKEN_COOKIE" envDefault:"sb-access-token"`
}
