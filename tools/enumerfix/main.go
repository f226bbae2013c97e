// Package main rewrites enumer output to construct errors with
// cockroachdb/errors. It is run from go:generate after enumer:
//
//	//go:generate go run github.com/smykla-skalski/slack-code/tools/enumerfix kind_enumer.go
package main

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	filePermissions = 0o644
	errorsImport    = `"github.com/cockroachdb/errors"`
	fmtImport       = `"fmt"`
)

// ErrUsage indicates incorrect usage of the tool.
var ErrUsage = errors.New("usage: enumerfix <file>...")

var (
	importBlock  = regexp.MustCompile(`import \(\n([\s\S]*?)\n\)`)
	fmtUses      = regexp.MustCompile(`fmt\.(Sprintf|Stringer|Fprintf|Printf)`)
	singleImport = regexp.MustCompile(`import ` + regexp.QuoteMeta(fmtImport))
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run fixes every file named in args[1:]. All files are attempted; failures
// are combined.
func run(args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}

	var result error

	for _, name := range args[1:] {
		result = errors.CombineErrors(result, fixFile(name))
	}

	return result
}

func fixFile(name string) error {
	//nolint:gosec // G304: path comes from go:generate
	content, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}

	fixed := fixEnumerFile(content)
	if bytes.Equal(fixed, content) {
		return nil
	}

	if err := os.WriteFile(name, fixed, filePermissions); err != nil {
		return errors.Wrapf(err, "writing %s", name)
	}

	return nil
}

// fixEnumerFile swaps fmt.Errorf for errors.Newf. The fmt import is replaced
// when nothing else uses it and kept alongside errors otherwise. Files
// without fmt.Errorf are returned unchanged.
func fixEnumerFile(content []byte) []byte {
	if !bytes.Contains(content, []byte("fmt.Errorf")) {
		return content
	}

	result := string(bytes.ReplaceAll(content, []byte("fmt.Errorf"), []byte("errors.Newf")))

	if fmtUses.MatchString(result) {
		return []byte(addErrorsImport(result))
	}

	return []byte(replaceFmtImport(result))
}

func addErrorsImport(content string) string {
	match := importBlock.FindStringSubmatch(content)
	if match == nil || strings.Contains(match[1], errorsImport) {
		return content
	}

	return importBlock.ReplaceAllLiteralString(content, "import (\n"+match[1]+"\n\t"+errorsImport+"\n)")
}

func replaceFmtImport(content string) string {
	if singleImport.MatchString(content) {
		return singleImport.ReplaceAllLiteralString(content, "import "+errorsImport)
	}

	return strings.Replace(content, "\t"+fmtImport+"\n", "\t"+errorsImport+"\n", 1)
}
