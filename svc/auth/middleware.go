package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/notesaas/handler"
	"github.com/dmitrymomot/notesaas/pkg/cookie"
	"github.com/dmitrymomot/notesaas/pkg/jwt"
	"github.com/dmitrymomot/notesaas/pkg/logger"
	"github.com/dmitrymomot/notesaas/pkg/rbac"
	"github.com/dmitrymomot/notesaas/svc/account"
)

// Claims are the identity provider's access token claims.
type Claims struct {
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
	gojwt.RegisteredClaims
}

type UserMetadata struct {
	FullName string `json:"full_name"`
}

// TokenVerifier checks a raw token and decodes its claims.
type TokenVerifier interface {
	Parse(token string, claims gojwt.Claims) error
}

type MiddlewareConfig struct {
	Service  *Service
	Verifier TokenVerifier
	Cookies  *cookie.Manager
	// Extractor defaults to the Authorization bearer header.
	Extractor jwt.TokenExtractorFunc
	Logger    *slog.Logger
}

// Middleware resolves the caller's identity. Requests without a valid token
// pass through anonymously; procedures that need a user reject them later.
// A first request from an unknown subject creates the user.
func Middleware(cfg MiddlewareConfig) func(http.Handler) http.Handler {
	if cfg.Extractor == nil {
		cfg.Extractor = jwt.BearerTokenExtractor
	}
	if cfg.Cookies == nil {
		cfg.Cookies = cookie.New()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With(logger.Component("auth"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cfg.Extractor(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			var claims Claims
			if err := cfg.Verifier.Parse(token, &claims); err != nil {
				log.DebugContext(r.Context(), "rejected access token", logger.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if claims.Subject == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := loadOrCreateUser(r, cfg.Service, claims)
			if err != nil {
				log.ErrorContext(r.Context(), "failed to load user", logger.Error(err))
				_ = handler.JSONError(handler.ErrInternal).Render(w, r)
				return
			}

			var preferred int64
			if v, err := cfg.Cookies.Get(r, ActiveAccountCookie); err == nil {
				preferred, _ = strconv.ParseInt(v, 10, 64)
			}

			id := &Identity{
				User:            user,
				ActiveAccountID: ResolveActiveAccount(user, preferred),
			}
			ctx := jwt.SetToken(r.Context(), token)
			ctx = WithIdentity(ctx, id)
			if m, ok := id.ActiveMembership(); ok {
				ctx = rbac.SetRoleToContext(ctx, m.Access.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func loadOrCreateUser(r *http.Request, svc *Service, claims Claims) (*account.FullUser, error) {
	ctx := r.Context()
	user, err := svc.GetFullUserBySubject(ctx, claims.Subject)
	if err != nil || user != nil {
		return user, err
	}

	user, err = svc.CreateUser(ctx, claims.Subject, claims.UserMetadata.FullName, claims.Email)
	if errors.Is(err, account.ErrUserExists) {
		// A parallel request created the user first.
		return svc.GetFullUserBySubject(ctx, claims.Subject)
	}
	return user, err
}

// SetActiveAccountCookie remembers accountID as the preferred account.
func SetActiveAccountCookie(w http.ResponseWriter, cookies *cookie.Manager, accountID int64) {
	cookies.Set(w, ActiveAccountCookie, strconv.FormatInt(accountID, 10),
		cookie.WithMaxAge(ActiveAccountCookieMaxAge))
}
