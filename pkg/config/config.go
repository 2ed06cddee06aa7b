// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

// Package config loads the backend configuration once at process start.
// The resulting Config value is passed by reference into the authenticator,
// issuer client and store constructors; nothing in this repository reads
// settings from package-level state.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for optional settings.
const (
	DefaultListenAddr     = ":8000"
	DefaultDatabasePath   = "openeo.db"
	DefaultRequestTimeout = 10 * time.Second
	DefaultOpenEOVersion  = "1.1.0"
	DefaultAPIURL         = "http://localhost:8000"
)

// Config holds every setting the backend needs. It is constructed once by
// Load and injected into the components that use it.
type Config struct {
	// APITitle is the human readable deployment title.
	APITitle string `mapstructure:"api_title"`

	// APIDescription describes the deployment in the capabilities document.
	APIDescription string `mapstructure:"api_description"`

	// OpenEOVersion is the openEO API version this deployment speaks.
	OpenEOVersion string `mapstructure:"openeo_version"`

	// APIURL is the externally reachable base URL of this deployment,
	// advertised in the version discovery document.
	APIURL string `mapstructure:"api_url"`

	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `mapstructure:"listen_addr"`

	// DatabasePath is the path of the SQLite database file.
	DatabasePath string `mapstructure:"database_path"`

	// OIDCIssuer is the URL of the identity provider used to verify tokens.
	OIDCIssuer string `mapstructure:"oidc_issuer"`

	// OIDCOrganisation is the provider id advertised to clients in the
	// OIDC credentials document.
	OIDCOrganisation string `mapstructure:"oidc_organisation"`

	// OIDCPolicies is the list of claim match rules, each "claim=value".
	// An empty list admits any verified user.
	OIDCPolicies []string `mapstructure:"oidc_policies"`

	// RequestTimeout bounds every outbound call to the identity provider.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load reads configuration from the environment (prefix OPENEO_) and, when
// present, from the given config file. Validation failures are returned
// rather than deferred to first use.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("request_timeout", DefaultRequestTimeout)
	v.SetDefault("openeo_version", DefaultOpenEOVersion)
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("oidc_organisation", "oidc")
	v.SetDefault("api_title", "openEO backend")
	v.SetDefault("api_description", "openEO data processing API")

	// Unmarshal only sees keys viper knows about, so settings without a
	// meaningful default still need to be registered for env lookup.
	v.SetDefault("oidc_issuer", "")
	v.SetDefault("oidc_policies", []string{})

	v.SetEnvPrefix("OPENEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Policies may arrive as one comma separated env value.
	if len(cfg.OIDCPolicies) == 1 && strings.Contains(cfg.OIDCPolicies[0], ",") {
		cfg.OIDCPolicies = strings.Split(cfg.OIDCPolicies[0], ",")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.OIDCIssuer == "" {
		return fmt.Errorf("oidc_issuer must be set")
	}
	u, err := url.Parse(c.OIDCIssuer)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("oidc_issuer %q is not a valid URL", c.OIDCIssuer)
	}
	for _, p := range c.OIDCPolicies {
		if !strings.Contains(p, "=") {
			return fmt.Errorf("oidc policy %q is not of the form claim=value", p)
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	return nil
}
