// Package prompt blocks until the operator presses a key.
package prompt

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

const Message = "Press any key to continue..."

// Pause prints Message to out and waits for a single key on in. When in is a
// terminal it is switched to raw mode so the key does not need Enter. Any
// other reader is consumed one byte at a time and end of input ends the wait.
func Pause(in io.Reader, out io.Writer) error {
	fmt.Fprint(out, Message)
	defer fmt.Fprintln(out)

	if f, ok := in.(*os.File); ok && isTerminal(f) {
		return pauseRaw(f)
	}

	return readOne(in)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func pauseRaw(f *os.File) error {
	fd := int(f.Fd())

	state, err := term.MakeRaw(fd)
	if err != nil {
		// cygwin ptys refuse raw mode, fall back to a line read
		return readOne(f)
	}
	defer term.Restore(fd, state)

	return readOne(f)
}

func readOne(in io.Reader) error {
	var buf [1]byte
	_, err := in.Read(buf[:])
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read keypress: %w", err)
	}
	return nil
}
