// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/eodcgmbh/openeo-backend/pkg/logger"
)

var newCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Scaffold a deployment directory for an openEO backend",
	Long: `Scaffold a deployment directory for an openEO backend.

The directory receives a commented configuration file and an environment
file template; fill in the identity provider settings before running
"openeo serve".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		return scaffold(path)
	},
}

const configTemplate = `# openEO backend configuration.
api_title: "openEO backend"
api_description: "openEO data processing API"
listen_addr: ":8000"
database_path: "openeo.db"

# Externally reachable base URL, advertised in /.well-known/openeo.
api_url: "http://localhost:8000"

# URL of the OIDC provider used to verify bearer tokens, and the provider
# id advertised to clients in /credentials/oidc.
oidc_issuer: "https://example-issuer.org/auth/realms/openeo"
oidc_organisation: "egi"

# Attribute match rules, any one of which authorizes a verified user.
# An empty list admits every verified user.
oidc_policies:
  - "eduperson_entitlement=urn:mace:egi.eu:group:vo.openeo.cloud"
`

const envTemplate = `# Environment overrides, prefix OPENEO_.
# OPENEO_OIDC_ISSUER=https://example-issuer.org/auth/realms/openeo
# OPENEO_DATABASE_PATH=/var/lib/openeo/openeo.db
# UNSTRUCTURED_LOGS=false
`

func scaffold(path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("creating project directory: %w", err)
	}

	files := map[string]string{
		"openeo.yaml":  configTemplate,
		".env.example": envTemplate,
	}

	for name, content := range files {
		target := filepath.Join(path, name)
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s already exists, not overwriting", target)
		}
		if err := os.WriteFile(target, []byte(content), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}
	}

	logger.Infof("scaffolded openEO backend deployment in %s", path)
	return nil
}
