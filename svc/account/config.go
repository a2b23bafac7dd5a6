package account

// Config controls how new accounts start out.
type Config struct {
	InitialPlanName         string `env:"INITIAL_PLAN_NAME" envDefault:"Free Trial"`
	InitialPlanActiveMonths int    `env:"INITIAL_PLAN_ACTIVE_MONTHS" envDefault:"1"`
}

// DefaultInitialPlanName is the plan new users start on.
const DefaultInitialPlanName = "Free Trial"

// WithDefaults fills zero fields, for configs not loaded from the environment.
func (c Config) WithDefaults() Config {
	if c.InitialPlanName == "" {
		c.InitialPlanName = DefaultInitialPlanName
	}
	if c.InitialPlanActiveMonths < 1 {
		c.InitialPlanActiveMonths = 1
	}
	return c
}
