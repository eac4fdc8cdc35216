package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where landingchat stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// PublicURL is the externally reachable URL of this instance,
	// used to build absolute share links and OpenGraph image URLs.
	PublicURL string
	// BasePath is the routing prefix when deployed under a sub-path.
	BasePath string

	// LLM provider configuration
	LLMAPIKey       string // LANDINGCHAT_LLM_API_KEY
	LLMBaseURL      string // LANDINGCHAT_LLM_BASE_URL (default: https://openrouter.ai/api/v1)
	LLMTitleModel   string // LANDINGCHAT_LLM_TITLE_MODEL (default: anthropic/claude-3.5-sonnet)
	LLMDefaultModel string // LANDINGCHAT_LLM_DEFAULT_MODEL (default: anthropic/claude-3.5-sonnet)

	// Share page configuration
	OGFontPath string // LANDINGCHAT_OG_FONT_PATH: TTF used to draw titles on social images
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsLLMEnabled returns true if an LLM provider API key is configured.
func (p *Profile) IsLLMEnabled() bool {
	return p.LLMAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads provider configuration from LANDINGCHAT_* environment variables.
func (p *Profile) FromEnv() {
	p.LLMAPIKey = os.Getenv("LANDINGCHAT_LLM_API_KEY")
	p.LLMBaseURL = getEnvOrDefault("LANDINGCHAT_LLM_BASE_URL", "https://openrouter.ai/api/v1")
	p.LLMTitleModel = getEnvOrDefault("LANDINGCHAT_LLM_TITLE_MODEL", "anthropic/claude-3.5-sonnet")
	p.LLMDefaultModel = getEnvOrDefault("LANDINGCHAT_LLM_DEFAULT_MODEL", "anthropic/claude-3.5-sonnet")
	p.OGFontPath = os.Getenv("LANDINGCHAT_OG_FONT_PATH")
	if v := os.Getenv("LANDINGCHAT_PUBLIC_URL"); v != "" {
		p.PublicURL = v
	}
	if v := os.Getenv("LANDINGCHAT_BASE_PATH"); v != "" {
		p.BasePath = v
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "landingchat")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/landingchat"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("landingchat_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	p.BasePath = strings.TrimRight(p.BasePath, "/")
	p.PublicURL = strings.TrimRight(p.PublicURL, "/")

	return nil
}
