// Command fxconfig prints the forex bot configuration as the bot would
// resolve it, with credentials masked, and reports anything missing.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/fxbootstrap/internal/config"
	"github.com/raykavin/fxbootstrap/pkg/logger/zerolog"
	"github.com/spf13/cobra"
)

var (
	configFile string
	rootDir    string
	logLevel   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "fxconfig",
		Short:        "Show the resolved forex bot configuration",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runCheck,
	}

	rootCmd.Flags().StringVarP(&configFile, "file", "f", "", "Config file path (default $"+config.EnvConfigFile+" or ./config.json)")
	rootCmd.Flags().StringVarP(&rootDir, "root", "r", "", "Bot working directory (default current directory)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	return rootCmd
}

func runCheck(cmd *cobra.Command, _ []string) error {
	log, err := zerolog.New(zerolog.Options{
		Out:     cmd.ErrOrStderr(),
		Level:   logLevel,
		Colored: isatty.IsTerminal(os.Stderr.Fd()),
	})
	if err != nil {
		return err
	}

	settings, err := config.Load(config.WithRoot(rootDir), config.WithFile(configFile))
	if err != nil {
		return err
	}

	log.WithFields(map[string]any{
		"file":  settings.File(),
		"pairs": len(settings.Pairs),
	}).Debug("Configuration loaded")

	out := cmd.OutOrStdout()
	renderSettings(out, settings)

	if err := settings.Validate(); err != nil {
		fmt.Fprintln(out)
		for _, problem := range unjoin(err) {
			fmt.Fprintf(out, "  - %v\n", problem)
		}
		return errors.New("configuration is incomplete")
	}

	fmt.Fprintln(out, "\nConfiguration OK")
	return nil
}

func renderSettings(w io.Writer, s *config.Settings) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Setting", "Value"})
	table.SetAutoWrapText(false)

	table.AppendBulk([][]string{
		{"Config file", s.File()},
		{"Telegram enabled", strconv.FormatBool(s.Telegram.Enabled)},
		{"Bot token", orUnset(config.Mask(s.Telegram.Token))},
		{"Chat ID", orUnset(config.Mask(s.Telegram.ChatID))},
		{"Pairs", strings.Join(s.Pairs, ", ")},
		{"Timeframe", s.Timeframe},
		{"Check interval", s.CheckInterval.String()},
		{"Strategies", strings.Join(s.EnabledStrategies(), ", ")},
		{"Trend EMA", strconv.Itoa(s.Indicators.EMATrend)},
		{"Charts dir", dirState(s.Paths.Charts)},
		{"Data dir", dirState(s.Paths.Data)},
		{"Debug", strconv.FormatBool(s.Debug)},
	})

	table.Render()
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func dirState(path string) string {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path + " (missing, run fxbootstrap)"
	}
	return path
}

func unjoin(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
