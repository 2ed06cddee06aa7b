// SPDX-FileCopyrightText: Copyright 2026 EODC GmbH
// SPDX-License-Identifier: Apache-2.0

// Package versions provides build version information for the backend.
package versions

import (
	"fmt"
	"runtime"
	"time"
)

const unknownStr = "unknown"

// Set at build time via ldflags.
var (
	// Version is the backend version, e.g. a release tag.
	Version = "dev"
	// Commit is the git commit hash the binary was built from.
	Commit = unknownStr
	// BuildDate is the RFC 3339 timestamp of the build.
	BuildDate = unknownStr
)

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo returns the build information of the running binary.
// Development builds without a release tag report "build-<short commit>".
func GetVersionInfo() VersionInfo {
	version := Version
	if version == "dev" {
		if Commit != unknownStr && len(Commit) >= 8 {
			version = "build-" + Commit[:8]
		} else {
			version = "build-" + unknownStr
		}
	}

	buildDate := BuildDate
	if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
		buildDate = t.UTC().Format("2006-01-02 15:04:05 UTC")
	}

	return VersionInfo{
		Version:   version,
		Commit:    Commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
