// ============================================================================
// resb - locale-aware resource bundles
// ============================================================================
//
// Package:     version
// Description: Build version information, set through -ldflags
// Author:      Mike Stoffels
// Created:     2026-10-04
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Build information; overridden at link time with
// -ldflags "-X github.com/msto63/resb/pkg/core/version.Version=1.2.3"
var (
	Version   = "0.3.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// FormatVersion is the binary bundle format version this build writes
const FormatVersion = 1

// Info describes the running build
type Info struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	BuildDate     string `json:"build_date"`
	GoVersion     string `json:"go_version"`
	Platform      string `json:"platform"`
	FormatVersion int    `json:"format_version"`
}

// Get returns the build information
func Get() Info {
	return Info{
		Version:       Version,
		Commit:        Commit,
		BuildDate:     BuildDate,
		GoVersion:     runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		FormatVersion: FormatVersion,
	}
}

// String returns a one-line summary
func (i Info) String() string {
	return fmt.Sprintf("resb %s (commit %s, built %s, %s %s, format v%d)",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform, i.FormatVersion)
}
