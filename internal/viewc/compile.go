package viewc

import (
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"
)

// Options configures a compilation.
type Options struct {
	Target Target
	Pretty bool
}

// DefaultOptions returns compact output for the iced target.
func DefaultOptions() Options {
	return Options{Target: Iced}
}

// Style returns the render style for the options.
func (o Options) Style() Style {
	return Style{Pretty: o.Pretty, Indent: o.Target.Indent}
}

// Compile parses one markup block and returns the rendered expression.
func Compile(filename, source string, opts Options) (string, error) {
	m, err := Parse(filename, source)
	if err != nil {
		return "", err
	}
	return Render(NewGenerator(opts.Target).Generate(m), opts.Style()), nil
}

// FormatOutput post-processes an expanded host file. Go files are
// formatted and have their imports fixed; other files are returned as is.
func FormatOutput(filename string, src []byte) ([]byte, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".go") {
		return src, nil
	}
	return imports.Process(filename, src, nil)
}
