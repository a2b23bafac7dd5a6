package billing

type Config struct {
	SecretKey       string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret   string `env:"STRIPE_WEBHOOK_SECRET"`
	SuccessURL      string `env:"STRIPE_SUCCESS_URL" envDefault:"http://localhost:3000/success?session_id={CHECKOUT_SESSION_ID}"`
	CancelURL       string `env:"STRIPE_CANCEL_URL" envDefault:"http://localhost:3000/cancel"`
	PortalReturnURL string `env:"STRIPE_PORTAL_RETURN_URL" envDefault:"http://localhost:3000/account"`
}
