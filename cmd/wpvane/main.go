// Command wpvane scans a WordPress site: core version, plugins, themes,
// users, known vulnerabilities and optionally weak passwords.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/waftester/wpvane/pkg/config"
	"github.com/waftester/wpvane/pkg/corpus"
	"github.com/waftester/wpvane/pkg/defaults"
	"github.com/waftester/wpvane/pkg/httpclient"
	"github.com/waftester/wpvane/pkg/logger"
	"github.com/waftester/wpvane/pkg/metrics"
	"github.com/waftester/wpvane/pkg/report"
	"github.com/waftester/wpvane/pkg/scanner"
	"github.com/waftester/wpvane/pkg/telemetry"
	"github.com/waftester/wpvane/pkg/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		printError(stderr, err)
	}
	return exitCode(err)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           defaults.ToolName + " --url <target> [flags]",
		Short:         "WordPress vulnerability scanner",
		Version:       defaults.Version,
		Args: func(cmd *cobra.Command, args []string) error {
			rest, err := config.AttachEnumerateValue(cmd.Flags(), args)
			if err == nil {
				err = cobra.NoArgs(cmd, rest)
			}
			if err != nil {
				return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return scan(cmd.Context(), opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	})
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func scan(ctx context.Context, opts *config.Options, stdout, stderr io.Writer) error {
	ui.SetNoColor(opts.NoColor || !ui.IsTerminal(stdout))

	log, closer, err := logger.New(logger.Config{
		Verbose: opts.Verbose,
		File:    opts.LogFile,
		Output:  stderr,
		NoColor: ui.IsNoColor(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	defer closer.Close()

	// A JSON report on stdout must stay parseable.
	header := stdout
	if !strings.EqualFold(opts.Format, report.FormatText) || opts.Output != "" {
		header = stderr
	}
	ui.PrintBanner(header)
	ui.PrintConfigLine(header, "URL", opts.URL)
	ui.PrintConfigLine(header, "Started", time.Now().UTC().Format(time.RFC1123))
	ui.PrintDivider(header)

	m := metrics.New(log)
	if opts.MetricsAddr != "" {
		addr, err := m.Serve(opts.MetricsAddr)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		defer m.Close()
		log.WithField("addr", addr).Info("serving metrics")
	}

	tp, err := telemetry.Setup(telemetry.Options{
		Endpoint: opts.OTLPEndpoint,
		Insecure: true,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(); err != nil {
			log.WithError(err).Warn("trace export failed")
		}
	}()

	httpCfg := opts.HTTPConfig()
	httpCfg.Recorder = m
	client, err := httpclient.NewClient(httpCfg)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	s := scanner.New(opts, client, corpus.Load(opts.CorpusDir, log),
		scanner.WithLogger(log),
		scanner.WithMetrics(m),
		scanner.WithProgress(stderr),
	)
	rep, scanErr := s.Run(ctx)
	if rep == nil || (scanErr != nil && !errors.Is(scanErr, context.Canceled)) {
		return scanErr
	}

	if err := writeReport(opts, stdout, rep); err != nil {
		return err
	}
	return scanErr
}

func writeReport(opts *config.Options, stdout io.Writer, rep *report.Report) error {
	if opts.Output == "" {
		return report.Write(stdout, opts.Format, rep)
	}
	f, err := os.Create(opts.Output)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := report.Write(f, opts.Format, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
