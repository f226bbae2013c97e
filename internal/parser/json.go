// Package parser provides JSON input parsing for Claude Code hooks.
package parser

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/slack-code/pkg/hook"
)

// MaxInputSize caps how much of stdin is read.
const MaxInputSize = 1 << 20

var (
	// ErrEmptyInput is returned when the input is empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidJSON is returned when the input is not valid JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrInputTooLarge is returned when the input exceeds MaxInputSize.
	ErrInputTooLarge = errors.New("input too large")
)

// JSONParser parses hook payloads from a reader, usually stdin.
type JSONParser struct {
	reader io.Reader
}

// NewJSONParser creates a new JSONParser that reads from the given reader.
func NewJSONParser(reader io.Reader) *JSONParser {
	return &JSONParser{
		reader: reader,
	}
}

// Parse reads the whole input and decodes it into a hook.Input.
func (p *JSONParser) Parse() (*hook.Input, error) {
	data, err := io.ReadAll(io.LimitReader(p.reader, MaxInputSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read input")
	}

	if len(data) > MaxInputSize {
		return nil, errors.Wrapf(ErrInputTooLarge, "more than %d bytes", MaxInputSize)
	}

	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	var input hook.Input

	if err := json.Unmarshal(data, &input); err != nil {
		return nil, errors.CombineErrors(ErrInvalidJSON, err)
	}

	return &input, nil
}
