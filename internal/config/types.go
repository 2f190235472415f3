package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Config is the resolved configuration of a cluster installation.
type Config struct {
	// Home is the cluster home. The node distribution is extracted here.
	Home string
	// StoreBinDir holds the yaci-store jar.
	StoreBinDir string
	// OgmiosHome and KupoHome are the extraction roots of those components.
	OgmiosHome string
	KupoHome   string

	Node      Source
	YaciStore Source
	Ogmios    Source
	Kupo      Source
}

// Source is the configured version and/or explicit download URL of a
// component. Either may be empty.
type Source struct {
	Version string
	URL     string
}

// sourceNamed returns the Source of the component called name, or nil.
func (c *Config) sourceNamed(name string) *Source {
	switch name {
	case "node":
		return &c.Node
	case "yaci-store":
		return &c.YaciStore
	case "ogmios":
		return &c.Ogmios
	case "kupo":
		return &c.Kupo
	default:
		return nil
	}
}

// Settings flattens the non-empty values of c into dotted setting keys.
func (c *Config) Settings() map[string]string {
	all := map[string]string{
		KeyHome:             c.Home,
		KeyStoreBinDir:      c.StoreBinDir,
		KeyOgmiosHome:       c.OgmiosHome,
		KeyKupoHome:         c.KupoHome,
		KeyNodeVersion:      c.Node.Version,
		KeyNodeURL:          c.Node.URL,
		KeyYaciStoreVersion: c.YaciStore.Version,
		KeyYaciStoreURL:     c.YaciStore.URL,
		KeyOgmiosVersion:    c.Ogmios.Version,
		KeyOgmiosURL:        c.Ogmios.URL,
		KeyKupoVersion:      c.Kupo.Version,
		KeyKupoURL:          c.Kupo.URL,
	}

	settings := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			settings[k] = v
		}
	}
	return settings
}

// applyDefaults fills the component directories from Home and expands a
// leading "~" in every path.
func (c *Config) applyDefaults() error {
	var err error
	for _, p := range []*string{&c.Home, &c.StoreBinDir, &c.OgmiosHome, &c.KupoHome} {
		if *p, err = expandHome(*p); err != nil {
			return err
		}
	}

	if c.Home == "" {
		return nil
	}
	if c.StoreBinDir == "" {
		c.StoreBinDir = filepath.Join(c.Home, "yaci-store")
	}
	if c.OgmiosHome == "" {
		c.OgmiosHome = filepath.Join(c.Home, "ogmios")
	}
	if c.KupoHome == "" {
		c.KupoHome = filepath.Join(c.Home, "kupo")
	}
	return nil
}

// Validate performs basic validation on a Config.
func (c *Config) Validate() error {
	if c.Home == "" {
		return &ValidationError{Field: KeyHome, Message: "cluster home cannot be empty"}
	}
	return c.validateURLs()
}

// validateURLs checks every explicit download URL that is set.
func (c *Config) validateURLs() error {
	urls := map[string]string{
		KeyNodeURL:      c.Node.URL,
		KeyYaciStoreURL: c.YaciStore.URL,
		KeyOgmiosURL:    c.Ogmios.URL,
		KeyKupoURL:      c.Kupo.URL,
	}
	for field, raw := range urls {
		if raw == "" {
			continue
		}
		if err := validateDownloadURL(raw); err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// validateDownloadURL accepts absolute http(s) URLs.
func validateDownloadURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid download URL: %w", err)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("download URL must use https:// or http:// scheme (got: %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("download URL has no host: %s", raw)
	}

	return nil
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// defaultHome returns ~/.clusterfetch, or a relative .clusterfetch when the
// user's home directory is unknown.
func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultHomeDirName
	}
	return filepath.Join(home, DefaultHomeDirName)
}
