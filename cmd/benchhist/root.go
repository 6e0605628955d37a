// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"

	"golang.org/x/benchhist/benchseries"
)

// config is the resolved configuration of one invocation.
type config struct {
	Root     string
	Output   string
	Title    string
	Width    float64
	Height   float64
	MaxTicks int
	Header   bool
	Filter   string
	CSV      string
	Verbose  bool
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string
	def := benchseries.DefaultChartOptions()

	cmd := &cobra.Command{
		Use:   "benchhist [flags] [root]",
		Short: "Chart benchmark history",
		Long: `benchhist walks root (default target/criterion) for BM_<YYYYMMDDhhmm>
result directories, averages each run's raw.csv per test, and draws
the per-test trend across runs into a single image.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(v, cfgFile); err != nil {
				return err
			}
			if len(args) == 1 {
				v.Set("root", args[0])
			}
			cfg := config{
				Root:     v.GetString("root"),
				Output:   v.GetString("output"),
				Title:    v.GetString("title"),
				Width:    v.GetFloat64("width"),
				Height:   v.GetFloat64("height"),
				MaxTicks: v.GetInt("max-ticks"),
				Header:   v.GetBool("header"),
				Filter:   v.GetString("filter"),
				CSV:      v.GetString("csv"),
				Verbose:  v.GetBool("verbose"),
			}
			return run(cmd, &cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ./benchhist.yaml if present)")
	f.StringP("output", "o", "plot.svg", "image file to write; the extension selects svg, png, jpg, tif, pdf or eps")
	f.String("title", def.Title, "chart caption")
	f.Float64("width", float64(def.Width), "image width in points")
	f.Float64("height", float64(def.Height), "image height in points")
	f.Int("max-ticks", def.MaxTicks, "maximum number of labeled ticks on the time axis")
	f.Bool("header", false, "skip the first row of every raw.csv as a header")
	f.String("filter", "", "only chart tests whose identity matches this regexp")
	f.String("csv", "", "also write the collected series as CSV to this file (- for stdout)")
	f.BoolP("verbose", "v", false, "enable debug logging")

	v.SetDefault("root", "target/criterion")
	if err := v.BindPFlags(f); err != nil {
		panic(err)
	}
	v.SetEnvPrefix("BENCHHIST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return cmd
}

// loadConfig reads the config file into v. An explicit file must
// exist; the default ./benchhist.yaml is optional.
func loadConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("benchhist")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &nf) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(cmd *cobra.Command, cfg *config) error {
	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	logger.Debug("config", "root", cfg.Root, "output", cfg.Output, "header", cfg.Header)

	var filter *regexp.Regexp
	if cfg.Filter != "" {
		var err error
		if filter, err = regexp.Compile(cfg.Filter); err != nil {
			return fmt.Errorf("bad -filter: %w", err)
		}
	}

	log, err := benchseries.Collect(cfg.Root, &benchseries.CollectOptions{
		Header: cfg.Header,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	if filter != nil {
		log = log.Filter(filter)
	}
	logger.Info("collected benchmark history", "root", cfg.Root, "tests", log.Len())

	if cfg.CSV != "" {
		if err := writeCSV(cmd.OutOrStdout(), cfg.CSV, log); err != nil {
			return err
		}
	}

	opts := &benchseries.ChartOptions{
		Title:    cfg.Title,
		Width:    vg.Length(cfg.Width),
		Height:   vg.Length(cfg.Height),
		MaxTicks: cfg.MaxTicks,
	}
	if err := benchseries.Chart(log, cfg.Output, opts); err != nil {
		return err
	}
	logger.Info("wrote chart", "path", cfg.Output)
	return nil
}

func writeCSV(stdout io.Writer, path string, log *benchseries.Log) error {
	if path == "-" {
		return log.WriteCSV(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := log.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
