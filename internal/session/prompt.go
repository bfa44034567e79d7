package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// Prompter reads one line of user input in response to a prompt.
type Prompter interface {
	ReadLine(prompt string) (string, error)
}

type ioPrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewPrompter builds a prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	return &ioPrompter{reader: bufio.NewReader(in), out: out}
}

func (p *ioPrompter) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// StdinIsInteractive reports whether stdin is attached to a terminal.
func StdinIsInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
