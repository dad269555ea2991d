package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CHECKOUT_MAX_ATTEMPTS", "5")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cf, _, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cf.ServerPort != "9091" || cf.DBDriver != "sqlite" {
		t.Fatalf("unexpected defaults: %+v", cf)
	}
	if cf.CheckoutMaxAttempts != 5 || cf.ShutdownTimeout != 2*time.Second {
		t.Fatalf("env not applied: %+v", cf)
	}
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "JWT_SECRET: from-file\nDB_DRIVER: postgres\nPOSTGRES_HOST: db\nPOSTGRES_DB: shop\nCORS_ORIGINS: http://a.test, http://b.test\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("POSTGRES_HOST", "db-env")

	cf, _, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cf.JWTSecret != "from-file" || cf.DBDriver != "postgres" {
		t.Fatalf("file not applied: %+v", cf)
	}
	want := "postgres://postgres:@db-env:5432/shop?sslmode=disable"
	if got := cf.PostgresDSN(); got != want {
		t.Fatalf("dsn: want %s, got %s", want, got)
	}
	if o := cf.Origins(); len(o) != 2 || o[1] != "http://b.test" {
		t.Fatalf("origins: %v", o)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("DB_DRIVER", "mysql")
	if _, _, err := Load(""); err == nil {
		t.Fatalf("expected driver error")
	}
}

func TestWatch_ReloadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("JWT_SECRET: x\nLOG_LEVEL: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, v, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	reloaded := make(chan *Config, 4)
	Watch(v, func(cf *Config, err error) {
		if err == nil {
			reloaded <- cf
		}
	})
	if err := os.WriteFile(path, []byte("JWT_SECRET: x\nLOG_LEVEL: debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case cf := <-reloaded:
			if cf.LogLevel == "debug" {
				return
			}
		case <-deadline:
			t.Fatalf("no reload observed")
		}
	}
}

func TestWatch_NoFileIsNoop(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	_, v, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	Watch(v, func(*Config, error) { t.Errorf("unexpected reload") })
}
