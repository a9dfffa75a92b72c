// Package config resolves convex-seed settings from the environment, .env files,
// an optional config file and the OS keychain.
//
// Precedence, highest first:
//  1. Process environment variables
//  2. .env.local, then .env in the working directory (never override 1)
//  3. config.{yaml,json,toml} in the XDG config dir
//  4. OS keychain (secrets only)
//
// The deployment URL is returned as configured; falling back to the default
// deployment is the seed runner's job so that an empty value stays observable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"convexseed/cli/internal/xdg"
)

// Environment variables recognized by convex-seed.
const (
	EnvURL       = "VITE_CONVEX_URL"
	EnvAuthToken = "CONVEX_AUTH_TOKEN"
	EnvDeployKey = "CONVEX_DEPLOY_KEY"
	EnvLogLevel  = "CONVEX_SEED_LOG_LEVEL"
	EnvTimeout   = "CONVEX_SEED_TIMEOUT"
)

// Config holds the resolved settings for one run.
type Config struct {
	// URL is the configured deployment URL, empty when nothing set it.
	URL string
	// AuthToken is an optional user identity token.
	AuthToken string
	// DeployKey is an optional deployment key; it takes precedence over AuthToken.
	DeployKey string
	// LogLevel is the diagnostic log level name.
	LogLevel string
	// Timeout bounds the remote call; zero leaves it to the transport.
	Timeout time.Duration
	// ConfigFile is the config file that was read, if any.
	ConfigFile string
}

// Secrets is the subset of the keychain used as a last-resort secret source.
type Secrets interface {
	LoadDeployKey() (string, error)
	LoadAuthToken() (string, error)
}

// Options control where Load looks.
type Options struct {
	// EnvDir is the directory searched for .env files; empty means the working directory.
	EnvDir string
	// ConfigDir overrides the XDG config directory.
	ConfigDir string
	// Secrets is consulted for credentials not set anywhere else; nil skips it.
	Secrets Secrets
}

// Load resolves the configuration.
func Load(opts Options) (Config, error) {
	var c Config

	loadEnvFiles(opts.EnvDir)

	v := viper.New()
	for key, env := range map[string]string{
		"url":        EnvURL,
		"auth_token": EnvAuthToken,
		"deploy_key": EnvDeployKey,
		"log_level":  EnvLogLevel,
		"timeout":    EnvTimeout,
	} {
		if err := v.BindEnv(key, env); err != nil {
			return c, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	dir := opts.ConfigDir
	if dir == "" {
		if d, err := xdg.ConfigDir(); err == nil {
			dir = d
		}
	}
	if dir != "" {
		v.SetConfigName("config")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return c, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	c.URL = strings.TrimSpace(v.GetString("url"))
	c.AuthToken = strings.TrimSpace(v.GetString("auth_token"))
	c.DeployKey = strings.TrimSpace(v.GetString("deploy_key"))
	c.LogLevel = strings.TrimSpace(v.GetString("log_level"))
	c.ConfigFile = v.ConfigFileUsed()

	if raw := strings.TrimSpace(v.GetString("timeout")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return c, fmt.Errorf("invalid %s %q: expected a duration such as 30s", EnvTimeout, raw)
		}
		c.Timeout = d
	}

	if opts.Secrets != nil {
		if c.DeployKey == "" {
			if key, err := opts.Secrets.LoadDeployKey(); err == nil {
				c.DeployKey = key
			}
		}
		if c.AuthToken == "" && c.DeployKey == "" {
			if tok, err := opts.Secrets.LoadAuthToken(); err == nil {
				c.AuthToken = tok
			}
		}
	}

	return c, nil
}

// loadEnvFiles loads variables from .env files without overriding the process environment.
// .env.local is loaded first so its values win over .env.
func loadEnvFiles(dir string) {
	for _, name := range []string{".env.local", ".env"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		_ = godotenv.Load(p)
	}
}
