package app

import (
	"github.com/dmitrymomot/notesaas/pkg/cookie"
	"github.com/dmitrymomot/notesaas/pkg/httpserver"
	"github.com/dmitrymomot/notesaas/pkg/llm"
	"github.com/dmitrymomot/notesaas/svc/account"
	"github.com/dmitrymomot/notesaas/svc/auth"
	"github.com/dmitrymomot/notesaas/svc/billing"
)

// Config is the server configuration read from the environment. The
// database settings are loaded separately so the server can run without one.
type Config struct {
	Log LogConfig

	HTTP     httpserver.Config
	Auth     auth.Config
	Accounts account.Config
	Plans    account.PlanProducts
	Billing  billing.Config
	LLM      llm.Config
	Cookie   cookie.Config
}

type LogConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"APP_NAME" envDefault:"notesaas"`
	// Level overrides the environment preset's level.
	Level string `env:"LOG_LEVEL"`
}
