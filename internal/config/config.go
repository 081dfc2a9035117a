package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the process configuration, loaded from the environment with
// sensible defaults for local development.
type Config struct {
	// HTTP server
	Port string

	// Logging
	LogLevel  string
	LogFormat string

	// Storage backend: memory, sqlite or postgres (postgres is implied
	// whenever DatabaseURL is set).
	Backend      string
	SQLiteDBPath string
	DatabaseURL  string

	// Ledger
	Currency  string
	Scenarios []string

	// Seed used when a scenario has no usable snapshot.
	SeedStart          string // YYYY-MM-DD; empty means today
	SeedDays           int
	SeedOpeningBalance string
	FacilityLimit      string
	FacilityTaken      string

	// Deferred-credit linkage
	LinkOffsetDays    int
	LinkCarryRate     string
	SupplierCategory  string
	SupportCategory   string
	RepaymentCategory string
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		Backend:      getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/cashflow.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		Currency:  getEnv("LEDGER_CURRENCY", "USD"),
		Scenarios: splitList(getEnv("LEDGER_SCENARIOS", "actual,budgeted")),

		SeedStart:          getEnv("SEED_START", ""),
		SeedDays:           getEnvInt("SEED_DAYS", 365),
		SeedOpeningBalance: getEnv("SEED_OPENING_BALANCE", "50000"),
		FacilityLimit:      getEnv("FACILITY_LIMIT", "200000"),
		FacilityTaken:      getEnv("FACILITY_TAKEN", "50000"),

		LinkOffsetDays:    getEnvInt("LINK_OFFSET_DAYS", 60),
		LinkCarryRate:     getEnv("LINK_CARRY_RATE", "1.018"),
		SupplierCategory:  getEnv("LINK_SUPPLIER_CATEGORY", ""),
		SupportCategory:   getEnv("LINK_SUPPORT_CATEGORY", ""),
		RepaymentCategory: getEnv("LINK_REPAYMENT_CATEGORY", ""),
	}
}

// Validate checks the configuration and returns an error listing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.Backend {
	case "memory", "sqlite", "postgres":
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend %q: must be memory, sqlite or postgres", c.Backend))
	}
	if c.Backend == "postgres" && c.DatabaseURL == "" {
		problems = append(problems, "postgres backend requires DATABASE_URL")
	}
	if c.Backend == "sqlite" && c.SQLiteDBPath == "" {
		problems = append(problems, "sqlite backend requires SQLITE_DB_PATH")
	}
	if len(c.Scenarios) == 0 {
		problems = append(problems, "at least one scenario is required")
	}
	if c.SeedDays < 1 {
		problems = append(problems, fmt.Sprintf("invalid seed days %d: must be positive", c.SeedDays))
	}
	if c.LinkOffsetDays < 0 {
		problems = append(problems, fmt.Sprintf("invalid link offset %d: must not be negative", c.LinkOffsetDays))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
