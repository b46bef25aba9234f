// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package blfdump implements the "blfdump" tool, which inspects BLF log files.
//
// The tool reads a file once, front to back, and either prints its records
// ("dump"), summarizes it ("stats"), or converts it to an export stream
// ("export"). Global settings may be loaded from a YAML configuration file;
// flags that are set explicitly take precedence.
package blfdump

import (
	"context"
	"io"

	"github.com/danjacques/goblf/blf"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Main is the main entry point.
func Main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := NewCommand().ExecuteContext(context.Background()); err != nil {
		logrus.Fatal(err)
	}
}

// app holds the state shared by all commands during a single invocation.
type app struct {
	configPath  string
	logLevel    string
	metricsFile string
	prefetch    int
	strict      bool

	cfg      *Config
	logger   *logrus.Logger
	registry *prometheus.Registry
}

// NewCommand returns the root "blfdump" command.
func NewCommand() *cobra.Command {
	var a app

	root := &cobra.Command{
		Use:   "blfdump",
		Short: "Inspect Vector BLF log files",

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
	}

	fs := root.PersistentFlags()
	fs.StringVar(&a.configPath, "config", "", "Path to a YAML configuration file.")
	fs.StringVar(&a.logLevel, "log-level", "warning", "Log level (debug, info, warning, error).")
	fs.StringVar(&a.metricsFile, "metrics-file", "",
		"If set, write Prometheus metrics to this file on exit.")
	fs.IntVar(&a.prefetch, "prefetch", 0,
		"If >0, the number of containers to decompress ahead of decoding.")
	fs.BoolVar(&a.strict, "strict", false, "Fail if the file has any stream-level problem.")

	root.AddCommand(
		a.dumpCommand(),
		a.statsCommand(),
		a.exportCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg := &Config{}
	if a.configPath != "" {
		var err error
		if cfg, err = LoadConfig(a.configPath); err != nil {
			return err
		}
	}

	fs := cmd.Flags()
	overrideString(fs, "log-level", &cfg.LogLevel, a.logLevel)
	overrideString(fs, "metrics-file", &cfg.MetricsFile, a.metricsFile)
	if fs.Changed("prefetch") || cfg.Prefetch == 0 {
		cfg.Prefetch = a.prefetch
	}
	if fs.Changed("strict") {
		cfg.Strict = a.strict
	}
	a.cfg = cfg

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	a.logger = logrus.New()
	a.logger.SetOutput(cmd.ErrOrStderr())
	a.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	a.logger.SetLevel(level)

	a.registry = prometheus.NewRegistry()
	blf.RegisterMonitoring(a.registry)
	return nil
}

func (a *app) teardown(cmd *cobra.Command, args []string) error {
	if a.cfg.MetricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
		return errors.Wrap(err, "writing metrics file")
	}
	a.logger.Debugf("Wrote metrics to %q.", a.cfg.MetricsFile)
	return nil
}

// overrideString sets *v to flag if the flag named name was set explicitly or
// *v is empty.
func overrideString(fs *pflag.FlagSet, name string, v *string, flag string) {
	if fs.Changed(name) || *v == "" {
		*v = flag
	}
}

func (a *app) readerConfig(path string) *blf.ReaderConfig {
	return &blf.ReaderConfig{
		Logger: a.logger.WithFields(logrus.Fields{
			"component": "reader",
			"file":      path,
		}),
		Prefetch: a.cfg.Prefetch,
		Strict:   a.cfg.Strict,
	}
}

// eachRecord opens the file at path and calls fn for each record in it, in
// order. fn may return errStop to end iteration early. The Reader logs its own
// warnings.
//
// The closed Reader is returned so its Header and Warnings can be inspected.
func (a *app) eachRecord(path string, fn func(r *blf.Reader, rec *blf.Record) error) (*blf.Reader, error) {
	r, err := a.readerConfig(path).Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := r.Close(); err != nil {
			a.logger.Warnf("Failed to close %q: %s", path, err)
		}
	}()

	for {
		rec, err := r.Next()
		switch {
		case err == io.EOF:
			return r, nil
		case err != nil:
			return r, errors.Wrapf(err, "reading %q", path)
		}

		if err := fn(r, rec); err != nil {
			if err == errStop {
				return r, nil
			}
			return r, err
		}
	}
}

var errStop = errors.New("stop")
