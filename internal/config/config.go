// Package config holds the shell's compiled-in configuration.
//
// The values live in shell.yaml, embedded at build time. There is no runtime
// config file and no environment override: the shell always loads the same
// endpoint with the same identity.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/livego/shell/pkg/platform"
)

//go:embed shell.yaml
var embedded []byte

// Config is the parsed shell.yaml.
type Config struct {
	App           AppConfig           `yaml:"app"`
	Shell         ShellConfig         `yaml:"shell"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name    string `yaml:"name"`
	ID      string `yaml:"id"`
	Version string `yaml:"version"`
}

// ShellConfig configures the browser view.
type ShellConfig struct {
	// URL is the hosted application's address. Must be https: media capture
	// needs a secure context.
	URL string `yaml:"url"`
	// UserAgent is the browser identity the app suffix is appended to.
	UserAgent string `yaml:"userAgent"`
	// BridgeName is the window property the script bridge is bound to.
	BridgeName string `yaml:"bridgeName"`
}

// NotificationsConfig holds the notification channel identity.
type NotificationsConfig struct {
	Channel ChannelConfig `yaml:"channel"`
	// Slot is the notification ID every post uses.
	Slot int `yaml:"slot"`
}

// ChannelConfig is the notification channel identity.
type ChannelConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Importance  string `yaml:"importance"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load parses and validates the embedded shell.yaml.
func Load() (*Config, error) {
	return Parse(embedded)
}

// Parse parses and validates a shell.yaml document, filling defaults for
// optional fields.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse shell.yaml: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.App.Name = strings.TrimSpace(c.App.Name)
	c.Shell.URL = strings.TrimSpace(c.Shell.URL)
	c.Shell.UserAgent = strings.TrimSpace(c.Shell.UserAgent)
	if c.Shell.BridgeName == "" {
		c.Shell.BridgeName = "Android"
	}
	if c.Notifications.Channel.Importance == "" {
		c.Notifications.Channel.Importance = string(platform.NotificationImportanceDefault)
	}
	if c.Notifications.Channel.Name == "" {
		c.Notifications.Channel.Name = c.App.Name
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

func (c *Config) validate() error {
	var errs []error

	if c.App.Name == "" {
		errs = append(errs, errors.New("app.name is required"))
	}
	if !semver.IsValid(c.App.Version) {
		errs = append(errs, fmt.Errorf("app.version %q is not a valid semantic version (want vMAJOR.MINOR.PATCH)", c.App.Version))
	}

	if u, err := url.Parse(c.Shell.URL); err != nil {
		errs = append(errs, fmt.Errorf("shell.url: %w", err))
	} else if u.Scheme != "https" || u.Host == "" {
		errs = append(errs, fmt.Errorf("shell.url %q must be an absolute https URL", c.Shell.URL))
	}
	if !platform.IsJavaScriptIdentifier(c.Shell.BridgeName) {
		errs = append(errs, fmt.Errorf("shell.bridgeName %q is not a JavaScript identifier", c.Shell.BridgeName))
	}

	if c.Notifications.Channel.ID == "" {
		errs = append(errs, errors.New("notifications.channel.id is required"))
	}
	if !platform.NotificationImportance(c.Notifications.Channel.Importance).Valid() {
		errs = append(errs, fmt.Errorf("notifications.channel.importance %q is not one of min, low, default, high", c.Notifications.Channel.Importance))
	}
	if c.Notifications.Slot < 0 {
		errs = append(errs, fmt.Errorf("notifications.slot %d must not be negative", c.Notifications.Slot))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid shell.yaml: %w", err)
	}
	return nil
}

// UserAgent returns the browser identity: the configured base user agent
// followed by "<AppName>App/<major>.<minor>", e.g. "... LiveGoApp/1.0".
func (c *Config) UserAgent() string {
	suffix := appToken(c.App.Name) + "App/" + strings.TrimPrefix(semver.MajorMinor(c.App.Version), "v")
	if c.Shell.UserAgent == "" {
		return suffix
	}
	return c.Shell.UserAgent + " " + suffix
}

// Channel returns the notification channel identity.
func (c *Config) Channel() platform.NotificationChannel {
	return platform.NotificationChannel{
		ID:          c.Notifications.Channel.ID,
		Name:        c.Notifications.Channel.Name,
		Description: c.Notifications.Channel.Description,
		Importance:  platform.NotificationImportance(c.Notifications.Channel.Importance),
	}
}

// appToken strips characters that are not allowed in a user-agent product token.
func appToken(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "Shell"
	}
	return sb.String()
}
