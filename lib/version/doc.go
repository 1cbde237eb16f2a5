// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version describes the build of the slotdeck binaries.
//
// Release builds inject the commit and build time:
//
//	go build -ldflags "-X github.com/bureau-foundation/slotdeck/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Development builds fall back to the VCS stamps recorded by the go
// command. [Current] assembles a [Build], which prints the --version
// output and the User-Agent sent to the backend.
package version
