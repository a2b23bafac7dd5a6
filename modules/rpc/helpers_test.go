package rpc_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notesaas/internal/memstore"
	"github.com/dmitrymomot/notesaas/modules/rpc"
	"github.com/dmitrymomot/notesaas/pkg/cookie"
	"github.com/dmitrymomot/notesaas/pkg/jwt"
	"github.com/dmitrymomot/notesaas/pkg/llm"
	"github.com/dmitrymomot/notesaas/pkg/rbac"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/auth"
	"github.com/dmitrymomot/notesaas/svc/notes"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

type generatorFunc func(ctx context.Context, prompt string, opts llm.Options) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string, opts llm.Options) (string, error) {
	return f(ctx, prompt, opts)
}

type env struct {
	handler  http.Handler
	tokens   *jwt.Service
	store    *memstore.Store
	accounts *account.Service
	auth     *auth.Service
	plans    map[string]account.Plan
	generate generatorFunc
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	e := &env{store: memstore.New(), plans: map[string]account.Plan{}}
	plans, err := account.SeedPlans(ctx, e.store, account.DefaultPlans("", account.PlanProducts{
		IndividualProductID: "prod_individual",
		TeamProductID:       "prod_team",
	}))
	require.NoError(t, err)
	for _, p := range plans {
		e.plans[p.Name] = p
	}

	e.tokens, err = jwt.NewFromString(testSecret, jwt.WithAudience("authenticated"))
	require.NoError(t, err)
	authz, err := rbac.NewAuthorizer(ctx, account.RoleSource())
	require.NoError(t, err)

	e.generate = func(context.Context, string, llm.Options) (string, error) {
		return "  A generated note.  ", nil
	}
	e.accounts = account.NewService(e.store, account.Config{})
	e.auth = auth.NewService(e.store, account.Config{})
	notesSvc := notes.NewService(e.store, e.accounts, generatorFunc(func(ctx context.Context, p string, o llm.Options) (string, error) {
		return e.generate(ctx, p, o)
	}))

	cookies := cookie.New()
	r := chi.NewRouter()
	r.Use(auth.Middleware(auth.MiddlewareConfig{
		Service:  e.auth,
		Verifier: e.tokens,
		Cookies:  cookies,
	}))
	r.Mount("/rpc", rpc.Router(rpc.RouterOptions{
		Accounts:   e.accounts,
		Notes:      notesSvc,
		Auth:       e.auth,
		Authorizer: authz,
		Cookies:    cookies,
	}))
	e.handler = r
	return e
}

func (e *env) token(t *testing.T, subject string) string {
	t.Helper()
	token, err := e.tokens.Generate(auth.Claims{
		Email:        subject + "@example.com",
		UserMetadata: auth.UserMetadata{FullName: "User " + subject},
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Audience:  gojwt.ClaimStrings{"authenticated"},
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)
	return token
}

type call struct {
	token   string
	cookies []*http.Cookie
}

type reply struct {
	code   int
	header http.Header
	Data   map[string]json.RawMessage `json:"data"`
	Error  *struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

func (e *env) call(t *testing.T, c call, procedure string, input any) reply {
	t.Helper()
	var body []byte
	if input != nil {
		var err error
		body, err = json.Marshal(input)
		require.NoError(t, err)
	}
	r := httptest.NewRequest(http.MethodPost, "/rpc/"+procedure, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		r.Header.Set("Authorization", "Bearer "+c.token)
	}
	for _, ck := range c.cookies {
		r.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, r)

	out := reply{code: w.Code, header: w.Header()}
	if strings.TrimSpace(w.Body.String()) != "" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return out
}

func (r reply) decode(t *testing.T, key string, v any) {
	t.Helper()
	raw, ok := r.Data[key]
	require.True(t, ok, "missing data key %q", key)
	require.NoError(t, json.Unmarshal(raw, v))
}

// signIn creates the user behind subject and returns their call settings and
// database record.
func (e *env) signIn(t *testing.T, subject string) (call, *account.FullUser) {
	t.Helper()
	c := call{token: e.token(t, subject)}
	res := e.call(t, c, "account.getDBUser", nil)
	require.Equal(t, http.StatusOK, res.code)
	var u account.FullUser
	res.decode(t, "dbUser", &u)
	return c, &u
}
