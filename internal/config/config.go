package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

var (
	ErrNoStore     = errors.New("neither database DSN nor data file is set")
	ErrNoAdmin     = errors.New("admin id is not set")
	ErrNoJWTSecret = errors.New("jwt secret is not set")
)

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	DataFile      string `env:"DATA_FILE"`

	JWTSecret      string `env:"JWT_SECRET"`
	FrontendAPIKey string `env:"FRONTEND_API_KEY"`
	AdminID        int64  `env:"ADMIN_ID"`

	CryptoPayAPIURL   string        `env:"CRYPTOPAY_API_URL"  envDefault:"https://pay.crypt.bot/api"`
	CryptoPayAPIToken string        `env:"CRYPTOPAY_API_TOKEN"`
	CryptoPayAsset    string        `env:"CRYPTOPAY_ASSET"    envDefault:"USDT"`
	GatewayTimeout    time.Duration `env:"GATEWAY_TIMEOUT"    envDefault:"10s"`

	MinDeposit   decimal.Decimal `env:"MIN_DEPOSIT"    envDefault:"1"`
	MaxDeposit   decimal.Decimal `env:"MAX_DEPOSIT"    envDefault:"10000"`
	MinWithdraw  decimal.Decimal `env:"MIN_WITHDRAW"   envDefault:"5"`
	MinDealTerms int             `env:"MIN_DEAL_TERMS" envDefault:"30"`

	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"60s"`
	ReconcileWorkers  uint          `env:"RECONCILE_WORKERS"  envDefault:"5"`
	ReconcileLimit    uint          `env:"RECONCILE_LIMIT"    envDefault:"100"`

	RedisAddr        string `env:"REDIS_ADDR"`
	NotifyWebhookURL string `env:"NOTIFY_WEBHOOK_URL"`

	LogLevel string `env:"LOG_LEVEL"`
}

// LoadConfig читает .env (если есть), переменные окружения и флаги командной строки.
// Переменные окружения имеют приоритет над флагами.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return loadConfig(os.Args[1:])
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func loadConfig(args []string) (*Config, error) {
	var flagsConfig, envConfig Config

	if envParseErr := env.ParseWithOptions(&envConfig, env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(decimal.Decimal{}): parseDecimal,
		},
	}); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if err := loadFlags(&flagsConfig, args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func parseDecimal(v string) (interface{}, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, fmt.Errorf("parse decimal %q: %w", v, err)
	}
	return d, nil
}

func loadFlags(flagConfig *Config, args []string) error {
	flags := flag.NewFlagSet("garant", flag.ContinueOnError)
	flags.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	flags.StringVar(&flagConfig.DatabaseDSN, "d", "", "Database DSN")
	flags.StringVar(&flagConfig.MigrationsDir, "m", "internal/db/migrations", "Database migrations directory")
	flags.StringVar(&flagConfig.DataFile, "f", "garant.json", "JSON data file, used when database DSN is empty")

	return flags.Parse(args) //nolint:wrapcheck
}

// mergeConfig берет из флагов только то, что флагами задается. Остальное приходит из окружения.
func mergeConfig(envConfig, flagsConfig *Config) *Config {
	conf := *envConfig
	conf.RunAddress = defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress)
	conf.DatabaseDSN = defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN)
	conf.MigrationsDir = defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir)
	conf.DataFile = defaultIfBlank(envConfig.DataFile, flagsConfig.DataFile)
	return &conf
}

func (c *Config) validate() error {
	if c.DatabaseDSN == "" && c.DataFile == "" {
		return ErrNoStore
	}
	if c.AdminID == 0 {
		return ErrNoAdmin
	}
	if c.JWTSecret == "" {
		return ErrNoJWTSecret
	}
	if !c.MinDeposit.IsPositive() || c.MinDeposit.GreaterThan(c.MaxDeposit) {
		return fmt.Errorf("invalid deposit limits: min %s, max %s", c.MinDeposit, c.MaxDeposit)
	}
	if !c.MinWithdraw.IsPositive() {
		return fmt.Errorf("invalid min withdraw %s", c.MinWithdraw)
	}
	if c.MinDealTerms < 0 {
		return fmt.Errorf("invalid min deal terms length %d", c.MinDealTerms)
	}
	return nil
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
