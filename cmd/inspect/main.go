// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/inertial_viewer/internal/app"
	"github.com/relabs-tech/inertial_viewer/internal/config"
)

var (
	configFlag      string
	rawFlag         string
	metaFlag        string
	fromFlag        float64
	toFlag          float64
	noIntegrateFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load a sensor log and its START/PAUSE metadata and print drift and window statistics",
	RunE:  runInspect,
}

func init() {
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "configuration file (KEY=VALUE); defaults + environment when empty")
	rootCmd.Flags().StringVarP(&rawFlag, "raw", "r", "", "raw sensor CSV")
	rootCmd.Flags().StringVarP(&metaFlag, "meta", "m", "", "metadata CSV or NMEA log")
	rootCmd.Flags().Float64Var(&fromFlag, "from", math.NaN(), "window start in seconds (default: recording start)")
	rootCmd.Flags().Float64Var(&toFlag, "to", math.NaN(), "window end in seconds (default: recording end)")
	rootCmd.Flags().BoolVar(&noIntegrateFlag, "no-integrate", false, "skip gyroscope integration")
	for _, name := range []string{"raw", "meta"} {
		if err := rootCmd.MarkFlagRequired(name); err != nil {
			log.Fatalf("inspect: %v", err)
		}
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}

	opts := app.InspectOptions{
		RawPath:  rawFlag,
		MetaPath: metaFlag,
		From:     fromFlag,
		To:       toFlag,
	}
	if noIntegrateFlag {
		off := false
		opts.Integrate = &off
	}
	return app.RunInspect(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
