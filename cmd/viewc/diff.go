package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines shown around a change.
const diffContext = 3

type diffLine struct {
	op    diffmatchpatch.Operation
	text  string
	oldNo int // line number in before, counting from 1
	newNo int // line number in after, counting from 1
}

// unifiedDiff renders a line diff between before and after in unified
// format. It returns "" when the texts are equal.
func unifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lineArray)

	var lines []diffLine
	oldN, newN := 1, 1
	for _, d := range diffs {
		for _, text := range splitLines(d.Text) {
			lines = append(lines, diffLine{op: d.Type, text: text, oldNo: oldN, newNo: newN})
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldN++
				newN++
			case diffmatchpatch.DiffDelete:
				oldN++
			case diffmatchpatch.DiffInsert:
				newN++
			}
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range hunks(lines) {
		writeHunk(&sb, lines[h[0]:h[1]])
	}
	return sb.String()
}

// hunks groups changed lines with their context into [start, end) ranges.
func hunks(lines []diffLine) [][2]int {
	var out [][2]int
	for i, l := range lines {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		start := max(0, i-diffContext)
		end := min(len(lines), i+diffContext+1)
		if n := len(out); n > 0 && start <= out[n-1][1] {
			out[n-1][1] = max(out[n-1][1], end)
			continue
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

func writeHunk(sb *strings.Builder, lines []diffLine) {
	oldStart, newStart := lines[0].oldNo, lines[0].newNo
	var oldCount, newCount int
	for _, l := range lines {
		if l.op != diffmatchpatch.DiffInsert {
			oldCount++
		}
		if l.op != diffmatchpatch.DiffDelete {
			newCount++
		}
	}
	if oldCount == 0 {
		oldStart--
	}
	if newCount == 0 {
		newStart--
	}

	color.New(color.FgCyan).Fprintf(sb, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
	for _, l := range lines {
		switch l.op {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(" " + l.text + "\n")
		case diffmatchpatch.DiffDelete:
			color.New(color.FgRed).Fprint(sb, "-"+l.text+"\n")
		case diffmatchpatch.DiffInsert:
			color.New(color.FgGreen).Fprint(sb, "+"+l.text+"\n")
		}
	}
}

// splitLines splits text into lines without their newlines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
