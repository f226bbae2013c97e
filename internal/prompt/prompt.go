// Package prompt reads answers from plain line-oriented input when no
// interactive terminal is available.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrEmptyInput is returned when the answer is empty and there is no default.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidInput is returned when a yes/no answer cannot be parsed.
	ErrInvalidInput = errors.New("invalid input")
)

// Prompter asks questions on a line-oriented stream.
type Prompter interface {
	// Input reads one line, returning defaultValue for an empty answer.
	Input(prompt, defaultValue string) (string, error)

	// Confirm reads a yes/no answer.
	Confirm(prompt string, defaultValue bool) (bool, error)
}

// StdPrompter implements Prompter over a reader and a writer.
type StdPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewStdPrompter prompts on stdout and reads stdin.
func NewStdPrompter() *StdPrompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

// NewPrompter prompts on w and reads r.
func NewPrompter(r io.Reader, w io.Writer) *StdPrompter {
	return &StdPrompter{reader: bufio.NewReader(r), writer: w}
}

// Input implements Prompter.
func (p *StdPrompter) Input(prompt, defaultValue string) (string, error) {
	label := prompt
	if defaultValue != "" {
		label = fmt.Sprintf("%s [%s]", prompt, defaultValue)
	}

	answer, err := p.ask(label)
	if err != nil {
		return "", err
	}

	if answer != "" {
		return answer, nil
	}

	if defaultValue == "" {
		return "", ErrEmptyInput
	}

	return defaultValue, nil
}

// Confirm implements Prompter.
func (p *StdPrompter) Confirm(prompt string, defaultValue bool) (bool, error) {
	hint := "y/N"
	if defaultValue {
		hint = "Y/n"
	}

	answer, err := p.ask(fmt.Sprintf("%s [%s]", prompt, hint))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "":
		return defaultValue, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, errors.Wrapf(ErrInvalidInput, "expected y/n, got %q", answer)
	}
}

// ask writes the label and reads a trimmed line. A final line without a
// newline is accepted.
func (p *StdPrompter) ask(label string) (string, error) {
	if _, err := fmt.Fprintf(p.writer, "%s: ", label); err != nil {
		return "", errors.Wrap(err, "writing prompt")
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", errors.Wrap(err, "reading answer")
	}

	return strings.TrimSpace(line), nil
}
