package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/Spok95/shelf-timer/internal/domain/users"
)

type Config struct {
	App struct {
		Env      string `validate:"required"`
		Timezone string `validate:"required"`
	} `mapstructure:"app"`

	HTTP struct {
		Addr string `validate:"required"`
	} `mapstructure:"http"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Ledger struct {
		Driver string `validate:"oneof=xlsx postgres"`
		Path   string `validate:"required_if=Driver xlsx"`
		Sheet  string `validate:"required_if=Driver xlsx"`
	} `mapstructure:"ledger"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Telegram struct {
		Token      string
		TimeoutSec int `mapstructure:"timeout_sec" validate:"gte=0"`
	} `mapstructure:"telegram"`

	Gemini struct {
		APIKey  string        `mapstructure:"api_key"`
		Model   string        `validate:"required"`
		BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
		Timeout time.Duration `validate:"gte=0"`
	} `mapstructure:"gemini"`

	Users []users.User `mapstructure:"users" validate:"dive"`

	Analytics struct {
		CO2Factor float64 `mapstructure:"co2_factor" validate:"gt=0"`
	} `mapstructure:"analytics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "UTC")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("ledger.driver", "xlsx")
	v.SetDefault("ledger.path", "data/pantry.xlsx")
	v.SetDefault("ledger.sheet", "DB")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.timeout_sec", 30)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("gemini.timeout", 30*time.Second)
	v.SetDefault("analytics.co2_factor", 2.5)
}

// Load читает .env (если есть), затем YAML по path и переменные APP_*, например APP_LEDGER_DRIVER.
// Пустой path — только значения по умолчанию и окружение.
func Load(path string) (Config, error) {
	var c Config
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	if c.Ledger.Driver == "postgres" && c.Postgres.DSN == "" {
		return c, errors.New("postgres.dsn is required for the postgres ledger")
	}
	if err := validator.New().Struct(c); err != nil {
		return c, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return c, err
	}
	return c, nil
}

// Location — часовой пояс, в котором считается «сегодня» и разбираются даты реестра.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}
