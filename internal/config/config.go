package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults match the transcription backend's published limits and pricing
// assumptions.
const (
	DefaultModel            = "whisper-1"
	DefaultCFModel          = "@cf/openai/whisper"
	DefaultMaxChunkSizeMB   = 24
	DefaultTestModeDuration = 600 // seconds
)

// Supported transcription backends.
const (
	BackendOpenAI     = "openai"
	BackendCloudflare = "cloudflare"
)

// ErrMissingAPIKey is returned when no credential is available at startup.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set (export it or add it to .env)")

// ErrMissingCFCredentials is returned when the cloudflare backend is selected
// without its account credentials.
var ErrMissingCFCredentials = errors.New("CF_ACCOUNT_ID and CF_API_TOKEN must be set for the cloudflare backend")

// Config holds everything the pipeline reads from the environment.
type Config struct {
	Backend          string
	APIKey           string
	Model            string
	CFAccountID      string
	CFAPIToken       string
	CFModel          string
	MaxChunkSizeMB   int
	TestModeDuration int // seconds processed when test mode is on
}

// Load reads .env (best-effort; the real environment always wins) and builds
// a Config from the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		Backend:          getenv("TRANSCRIBE_BACKEND"),
		APIKey:           getenv("OPENAI_API_KEY"),
		Model:            getenv("WHISPER_MODEL"),
		CFAccountID:      getenv("CF_ACCOUNT_ID"),
		CFAPIToken:       getenv("CF_API_TOKEN"),
		CFModel:          getenv("CF_MODEL"),
		MaxChunkSizeMB:   intFromEnv(getenv, "MAX_CHUNK_SIZE_MB", DefaultMaxChunkSizeMB),
		TestModeDuration: intFromEnv(getenv, "TEST_MODE_DURATION", DefaultTestModeDuration),
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendOpenAI
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.CFModel == "" {
		cfg.CFModel = DefaultCFModel
	}
	return cfg
}

// Validate checks that the credential the selected backend needs is present.
// Absence is a startup-time fatal error, not a per-call one.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendOpenAI, "":
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
	case BackendCloudflare:
		if c.CFAccountID == "" || c.CFAPIToken == "" {
			return ErrMissingCFCredentials
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

func intFromEnv(getenv func(string) string, key string, def int) int {
	v := getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
