// Package bootstrap prepares a fresh working directory for the forex bot:
// it creates the runtime directories, prints the remaining manual setup
// steps and waits for the operator to acknowledge them.
package bootstrap

import (
	"io"
	"os"

	"github.com/raykavin/fxbootstrap/internal/instructions"
	"github.com/raykavin/fxbootstrap/internal/layout"
	"github.com/raykavin/fxbootstrap/internal/prompt"
	"github.com/raykavin/fxbootstrap/pkg/logger"
)

// Bootstrapper prepares the runtime layout and walks the operator through setup.
type Bootstrapper struct {
	layout layout.RuntimeLayout
	in     io.Reader
	out    io.Writer
	log    logger.Logger
	pause  bool
}

// Option configures a Bootstrapper.
type Option func(*Bootstrapper)

// WithRoot changes the directory the layout is created in. Defaults to the
// working directory.
func WithRoot(root string) Option {
	return func(b *Bootstrapper) {
		b.layout.Root = root
	}
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(b *Bootstrapper) {
		b.in = in
		b.out = out
	}
}

// WithoutPause skips the final keypress wait.
func WithoutPause() Option {
	return func(b *Bootstrapper) {
		b.pause = false
	}
}

// New creates a Bootstrapper for the default charts/data layout.
func New(log logger.Logger, options ...Option) *Bootstrapper {
	b := &Bootstrapper{
		layout: layout.Default(""),
		in:     os.Stdin,
		out:    os.Stdout,
		log:    log,
		pause:  true,
	}

	for _, option := range options {
		option(b)
	}

	return b
}

// Run ensures the layout, then prints the instructions, then pauses. A
// layout failure is returned before anything is printed.
func (b *Bootstrapper) Run() error {
	results, err := b.layout.Ensure()
	for _, r := range results {
		state := "exists"
		if r.Created {
			state = "created"
		}
		b.log.WithFields(map[string]any{
			"path":  b.layout.Dir(r.Path),
			"state": state,
		}).Debug("Runtime directory ready")
	}
	if err != nil {
		return err
	}

	instructions.PrintInstructions(b.out)

	if !b.pause {
		return nil
	}
	if err := prompt.Pause(b.in, b.out); err != nil {
		b.log.WithError(err).Warn("Could not wait for keypress")
	}

	return nil
}
