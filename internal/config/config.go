package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvSelector names the variable that picks a settings profile.
	EnvSelector = "APP_ENV"
	// DefaultProfile is used when the selector is empty or unknown.
	DefaultProfile = "development"
	// DefaultPort is used when PORT is absent or invalid.
	DefaultPort = 3000
)

//go:embed profiles.yaml
var profilesYAML []byte

// ErrEmptyDB is returned when no connection URI could be resolved.
var ErrEmptyDB = errors.New("config: empty database uri")

// Env is an explicit snapshot of environment variables.
type Env map[string]string

// Settings is the resolved per-environment profile.
type Settings struct {
	Name string `yaml:"-"`
	DB   string `yaml:"db"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string
	Format string
}

// Config is everything the server needs at startup.
type Config struct {
	Env      string
	Settings Settings
	Port     int
	Logging  LoggingConfig
}

// Environ snapshots the process environment.
func Environ() Env {
	env := Env{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			env[k] = v
		}
	}
	return env
}

// LoadDotEnv loads .env files into the process environment. Files that
// do not exist are skipped. A variable keeps the first value it gets, so
// the process environment wins over every file and earlier files win over
// later ones: .env.local is loaded before .env.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env.local", ".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func profiles() (map[string]Settings, error) {
	var out map[string]Settings
	if err := yaml.Unmarshal(profilesYAML, &out); err != nil {
		return nil, fmt.Errorf("error parsing profiles: %w", err)
	}
	return out, nil
}

// Resolve picks the settings profile named by APP_ENV. DATABASE_URL, when
// set, replaces the profile's uri.
func Resolve(env Env) (Settings, error) {
	all, err := profiles()
	if err != nil {
		return Settings{}, err
	}
	name := strings.ToLower(strings.TrimSpace(env[EnvSelector]))
	s, ok := all[name]
	if !ok {
		name = DefaultProfile
		s = all[name]
	}
	s.Name = name
	if url := strings.TrimSpace(env["DATABASE_URL"]); url != "" {
		s.DB = url
	}
	if s.DB == "" {
		return Settings{}, fmt.Errorf("profile %q: %w", name, ErrEmptyDB)
	}
	return s, nil
}

// Port returns PORT when it is a valid TCP port, DefaultPort otherwise.
func Port(env Env) int {
	n, err := strconv.Atoi(strings.TrimSpace(env["PORT"]))
	if err != nil || n <= 0 || n > 65535 {
		return DefaultPort
	}
	return n
}

// Load resolves the full startup configuration from env.
func Load(env Env) (*Config, error) {
	s, err := Resolve(env)
	if err != nil {
		return nil, err
	}
	return &Config{
		Env:      s.Name,
		Settings: s,
		Port:     Port(env),
		Logging: LoggingConfig{
			Level:  env["LOG_LEVEL"],
			Format: env["LOG_FORMAT"],
		},
	}, nil
}
