// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError ends the process with Code after the command has already
// explained itself on stderr, e.g. whoami with nobody logged in.
// lib/process recognizes it through the ExitCode method and prints
// nothing further.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// ExitCode reports Code.
func (e *ExitError) ExitCode() int { return e.Code }
