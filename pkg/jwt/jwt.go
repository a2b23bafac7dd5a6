// Package jwt signs and verifies HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5, and extracts bearer tokens from requests.
package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Service verifies tokens signed with a shared HMAC secret.
type Service struct {
	signingKey []byte
	parser     *gojwt.Parser
}

type Option func(*options)

type options struct {
	issuer   string
	audience string
	leeway   time.Duration
}

// WithIssuer requires the "iss" claim to equal issuer.
func WithIssuer(issuer string) Option {
	return func(o *options) { o.issuer = issuer }
}

// WithAudience requires "aud" to contain audience.
func WithAudience(audience string) Option {
	return func(o *options) { o.audience = audience }
}

// WithLeeway tolerates clock skew when checking exp, nbf and iat.
func WithLeeway(d time.Duration) Option {
	return func(o *options) { o.leeway = d }
}

func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	parserOpts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
	}
	if o.issuer != "" {
		parserOpts = append(parserOpts, gojwt.WithIssuer(o.issuer))
	}
	if o.audience != "" {
		parserOpts = append(parserOpts, gojwt.WithAudience(o.audience))
	}
	if o.leeway > 0 {
		parserOpts = append(parserOpts, gojwt.WithLeeway(o.leeway))
	}

	return &Service{
		signingKey: signingKey,
		parser:     gojwt.NewParser(parserOpts...),
	}, nil
}

func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// Generate signs claims with HS256.
func (s *Service) Generate(claims gojwt.Claims) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// Parse verifies token and decodes its payload into claims.
func (s *Service) Parse(token string, claims gojwt.Claims) error {
	if claims == nil {
		return ErrMissingClaims
	}
	_, err := s.parser.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.signingKey, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		// Also covers tokens signed with a method other than HS256.
		return errors.Join(ErrInvalidSignature, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
