package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/waftester/wpvane/pkg/config"
	"github.com/waftester/wpvane/pkg/defaults"
	"github.com/waftester/wpvane/pkg/probes"
	"github.com/waftester/wpvane/pkg/ui"
)

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return defaults.ExitOK
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrMissingRequired):
		return defaults.ExitConfig
	case errors.Is(err, probes.ErrNotWordPress):
		return defaults.ExitNotWordPress
	default:
		return defaults.ExitError
	}
}

func printError(w io.Writer, err error) {
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, ui.WarnStyle.Render("[!] Scan interrupted"))
		return
	}
	fmt.Fprintf(w, "%s %s\n", ui.ErrorStyle.Render("[ERROR]"), ui.SanitizeString(err.Error()))
	if errors.Is(err, probes.ErrNotWordPress) {
		fmt.Fprintln(w, ui.MutedStyle.Render("    Use --force to scan anyway."))
	}
}
