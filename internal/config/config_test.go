package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Spok95/shelf-timer/internal/config"
)

func TestLoadExample(t *testing.T) {
	c, err := config.Load(filepath.Join("..", "..", "config", "example.yaml"))
	if err != nil {
		t.Fatalf("load example: %v", err)
	}
	if c.Ledger.Driver != "xlsx" || c.Ledger.Sheet != "DB" {
		t.Fatalf("unexpected ledger section %+v", c.Ledger)
	}
	if len(c.Users) != 3 || c.Users[0].DisplayName != "Maria" {
		t.Fatalf("unexpected users %+v", c.Users)
	}
	if c.Gemini.Timeout != 30*time.Second {
		t.Fatalf("expected 30s gemini timeout, got %v", c.Gemini.Timeout)
	}
}

func TestLoadDefaults(t *testing.T) {
	c, err := config.Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if c.App.Env != "prod" || c.HTTP.Addr != ":8080" || c.Analytics.CO2Factor != 2.5 {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.Gemini.Model != "gemini-2.0-flash" {
		t.Fatalf("unexpected gemini model %q", c.Gemini.Model)
	}
	loc, err := c.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC location, got %v (%v)", loc, err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APP_HTTP_ADDR", ":9090")
	t.Setenv("APP_ANALYTICS_CO2_FACTOR", "3")

	c, err := config.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.HTTP.Addr != ":9090" || c.Analytics.CO2Factor != 3 {
		t.Fatalf("expected env overrides, got addr=%q factor=%v", c.HTTP.Addr, c.Analytics.CO2Factor)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"driver":   "ledger:\n  driver: csv\n",
		"postgres": "ledger:\n  driver: postgres\n",
		"timezone": "app:\n  timezone: Mars/Olympus\n",
		"factor":   "analytics:\n  co2_factor: -1\n",
	}
	for name, body := range cases {
		path := filepath.Join(t.TempDir(), name+".yaml")
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := config.Load(path); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
