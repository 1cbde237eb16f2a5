// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags -X at build time.
var (
	GitCommit = ""
	GitDirty  = ""
	BuildTime = ""

	// Version is bumped by hand for releases.
	Version = "0.1.0-dev"
)

// Build describes the running binary.
type Build struct {
	Version  string
	Commit   string
	Dirty    bool
	Time     string
	Go       string
	Platform string
}

// Current returns the build description. Fields not injected through
// ldflags fall back to the VCS stamps the go command records, then to
// "unknown".
func Current() Build {
	build := Build{
		Version:  Version,
		Commit:   GitCommit,
		Dirty:    GitDirty == "true",
		Time:     BuildTime,
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if build.Commit == "" || build.Time == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			build.fillFromSettings(info.Settings)
		}
	}
	if build.Commit == "" {
		build.Commit = "unknown"
	}
	if build.Time == "" {
		build.Time = "unknown"
	}
	return build
}

func (b *Build) fillFromSettings(settings []debug.BuildSetting) {
	injected := b.Commit != ""
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			if !injected {
				b.Commit = setting.Value
				if len(b.Commit) > 12 {
					b.Commit = b.Commit[:12]
				}
			}
		case "vcs.modified":
			if !injected {
				b.Dirty = setting.Value == "true"
			}
		case "vcs.time":
			if b.Time == "" {
				b.Time = setting.Value
			}
		}
	}
}

// String is the one-line form: "0.1.0-dev (abc1234-dirty, 2026-03-01T09:00:00Z)".
func (b Build) String() string {
	dirty := ""
	if b.Dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", b.Version, b.Commit, dirty, b.Time)
}

// Print writes the --version output for binary to w.
func (b Build) Print(w io.Writer, binary string) {
	fmt.Fprintf(w, "%s %s\n  Go: %s\n  Platform: %s\n", binary, b, b.Go, b.Platform)
}

// UserAgent is the User-Agent header value binary sends to the backend.
func (b Build) UserAgent(binary string) string {
	return fmt.Sprintf("%s/%s (%s; %s)", binary, b.Version, b.Platform, b.Go)
}
