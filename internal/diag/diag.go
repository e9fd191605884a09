// Package diag prints compile errors with the offending source line and a
// caret under the reported span.
package diag

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/grindlemire/viewc/internal/viewc"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	caretColor = color.New(color.FgRed)
	gutter     = color.New(color.FgBlue)
	hintLabel  = color.New(color.FgCyan)
	location   = color.New(color.Bold)
)

// Print writes err to w. A *viewc.Error found in the chain is shown with a
// snippet of source; any other error is printed on one line.
func Print(w io.Writer, err error, source string) {
	var verr *viewc.Error
	if !errors.As(err, &verr) {
		fmt.Fprintf(w, "%s %v\n", errorLabel.Sprint("error:"), err)
		return
	}

	location.Fprint(w, verr.Pos.String()+":")
	fmt.Fprintf(w, " %s %s\n", errorLabel.Sprint("error:"), verr.Message)

	if line, ok := sourceLine(source, verr.Pos.Line); ok {
		num := strconv.Itoa(verr.Pos.Line)
		pad := strings.Repeat(" ", len(num))

		fmt.Fprintf(w, "%s %s %s\n", gutter.Sprint(num), gutter.Sprint("|"), line)
		fmt.Fprintf(w, "%s %s %s%s\n", pad, gutter.Sprint("|"),
			leading(line, verr.Pos.Column), caretColor.Sprint(carets(verr, line)))
	}

	if verr.Hint != "" {
		fmt.Fprintf(w, "  %s %s\n", hintLabel.Sprint("hint:"), verr.Hint)
	}
}

// sourceLine returns line n (1-based) of source without its newline.
func sourceLine(source string, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	for i := 1; i < n; i++ {
		j := strings.IndexByte(source, '\n')
		if j < 0 {
			return "", false
		}
		source = source[j+1:]
	}
	if j := strings.IndexByte(source, '\n'); j >= 0 {
		source = source[:j]
	}
	return strings.TrimRight(source, "\r"), true
}

// leading returns whitespace that lines up with column col of line. Tabs
// are kept so the caret stays aligned however tabs are displayed.
func leading(line string, col int) string {
	var sb strings.Builder
	for i, r := range line {
		if utf8.RuneCountInString(line[:i]) >= col-1 {
			break
		}
		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// carets underlines the error span on its first line, at least one column wide.
func carets(verr *viewc.Error, line string) string {
	width := 1
	if verr.End.Line == verr.Pos.Line && verr.End.Column > verr.Pos.Column {
		width = verr.End.Column - verr.Pos.Column
	} else if verr.End.Line > verr.Pos.Line {
		width = max(1, utf8.RuneCountInString(line)-verr.Pos.Column+1)
	}
	return strings.Repeat("^", width)
}

// Summary formats a one-line count such as "2 errors in 1 file".
func Summary(errs, files int) string {
	return plural(errs, "error") + " in " + plural(files, "file")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
