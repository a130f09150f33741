package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "AUTH_SECRET", "RATE_LIMIT", "PAYDAY_WEEKDAY", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.DBPath != "finalpay.db" {
		t.Errorf("DBPath = %s", cfg.DBPath)
	}
	if cfg.RateLimit != "60-M" {
		t.Errorf("RateLimit = %s", cfg.RateLimit)
	}
	if cfg.PaydayWeekday != time.Friday {
		t.Errorf("PaydayWeekday = %v", cfg.PaydayWeekday)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("PAYDAY_WEEKDAY", "thursday")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg := Load()
	if cfg.Port != 9090 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.DBPath != ":memory:" {
		t.Errorf("DBPath = %s", cfg.DBPath)
	}
	if cfg.PaydayWeekday != time.Thursday {
		t.Errorf("PaydayWeekday = %v", cfg.PaydayWeekday)
	}
	want := []string{"https://app.example.com", "https://admin.example.com"}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != want[0] || cfg.CORSOrigins[1] != want[1] {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestParseWeekday(t *testing.T) {
	if parseWeekday(" Monday ") != time.Monday {
		t.Error("parseWeekday ignores surrounding whitespace")
	}
	// Sunday is not a business payday; unknown names fall back to Friday
	if parseWeekday("sunday") != time.Friday {
		t.Error("sunday should fall back to Friday")
	}
	if parseWeekday("whenever") != time.Friday {
		t.Error("unknown weekday should fall back to Friday")
	}
}
