package config

import (
	"errors"
	"os"
	"sync"
)

type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	APIBaseURL   string
}

type Config struct {
	Env            string
	LogLevel       string
	Addr           string
	APIToken       string
	AuthServiceURL string

	DBType          string
	DBDSN           string
	FileEntries     string
	FileReminders   string
	FileCredentials string
	FileProfile     string
	FileAppleHealth string

	Fitbit    ProviderConfig
	GoogleFit ProviderConfig
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = loadDotEnv()
		cfg = &Config{
			Env:             getEnv("APP_ENV", "development"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			Addr:            getEnv("LISTEN_ADDR", ":8088"),
			APIToken:        getEnv("API_TOKEN", "MOCK-TOKEN"),
			AuthServiceURL:  getEnv("AUTH_SERVICE_URL", ""),
			DBType:          getEnv("STORAGE_BACKEND", "file"),
			DBDSN:           getEnv("POSTGRES_DSN", ""),
			FileEntries:     getEnv("ENTRIES_FILE", "data/sleep_entries.json"),
			FileReminders:   getEnv("REMINDERS_FILE", "data/reminders.json"),
			FileCredentials: getEnv("CREDENTIALS_FILE", "data/credentials.json"),
			FileProfile:     getEnv("PROFILE_FILE", "data/profile.json"),
			FileAppleHealth: getEnv("APPLE_HEALTH_FILE", "data/apple_health.json"),
			Fitbit: ProviderConfig{
				ClientID:     getEnv("FITBIT_CLIENT_ID", ""),
				ClientSecret: getEnv("FITBIT_CLIENT_SECRET", ""),
				RedirectURI:  getEnv("FITBIT_REDIRECT_URI", ""),
				AuthURL:      getEnv("FITBIT_AUTH_URL", "https://www.fitbit.com/oauth2/authorize"),
				TokenURL:     getEnv("FITBIT_TOKEN_URL", "https://api.fitbit.com/oauth2/token"),
				APIBaseURL:   getEnv("FITBIT_API_BASE_URL", "https://api.fitbit.com/1.2"),
			},
			GoogleFit: ProviderConfig{
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				RedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),
				AuthURL:      getEnv("GOOGLE_AUTH_URL", "https://accounts.google.com/o/oauth2/v2/auth"),
				TokenURL:     getEnv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),
				APIBaseURL:   getEnv("GOOGLE_FIT_API_BASE_URL", "https://www.googleapis.com/fitness/v1/users/me"),
			},
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && (c.FileEntries == "" || c.FileReminders == "") {
		return errors.New("File storage requires ENTRIES_FILE and REMINDERS_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if c.Env != "development" && c.AuthServiceURL == "" {
		return errors.New("AUTH_SERVICE_URL is required outside development")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		f, err := os.Open(".env")
		if err != nil {
			return err
		}
		defer f.Close()
		var lines []string
		buf := make([]byte, 4096)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				lines = append(lines, string(buf[:n]))
			}
			if err != nil {
				break
			}
		}
		for _, line := range lines {
			for _, l := range splitLines(line) {
				if len(l) == 0 || l[0] == '#' {
					continue
				}
				kv := splitKV(l)
				if len(kv) == 2 {
					os.Setenv(kv[0], kv[1])
				}
			}
		}
	}
	return nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' || c == '\r' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func splitKV(s string) []string {
	for i, c := range s {
		if c == '=' {
			return []string{s[:i], s[i+1:]}
		}
	}
	return nil
}
