// Command fxbootstrap prepares the working directory for the forex bot and
// prints the remaining manual setup steps.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/raykavin/fxbootstrap/internal/bootstrap"
	"github.com/raykavin/fxbootstrap/pkg/logger/zerolog"
	"github.com/spf13/cobra"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	return execute(newRootCmd())
}

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "fxbootstrap",
		Short:         "Prepare the forex bot working directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBootstrap,
	}
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "setup failed: %v\n", err)
		return exitFailure
	}
	return exitOK
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	log, err := zerolog.New(zerolog.Options{
		Out:     cmd.ErrOrStderr(),
		Level:   "warn",
		Colored: isatty.IsTerminal(os.Stderr.Fd()),
	})
	if err != nil {
		return err
	}

	return bootstrap.New(log, bootstrap.WithIO(cmd.InOrStdin(), cmd.OutOrStdout())).Run()
}
