// Package formatter rewrites markup blocks in a canonical layout.
//
// It parses each view! block of a template, prints the tree back with
// normalized spacing, separators and indentation, and splices the result
// into the host text. Expression code is kept byte for byte. Used by the
// "viewc fmt" command.
package formatter
