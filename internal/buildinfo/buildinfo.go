// Package buildinfo holds build-time metadata injected via -ldflags, e.g.
//
//	-X github.com/anurag-chatbot/au-fulfillment/internal/buildinfo.Version=v1.2.0
package buildinfo

import "runtime/debug"

// Version is the semantic version or tag for this build.
var Version = ""

// Commit is the git commit SHA for this build.
var Commit = ""

// BuildDate is the RFC3339 build timestamp.
var BuildDate = ""

// String describes the build for startup logs. Builds without ldflags fall
// back to the VCS revision recorded by the Go toolchain.
func String() string {
	version, commit := Version, Commit
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = vcsRevision()
	}
	s := version
	if commit != "" {
		s += " (" + shortCommit(commit) + ")"
	}
	if BuildDate != "" {
		s += " built " + BuildDate
	}
	return s
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
