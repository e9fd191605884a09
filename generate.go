//go:build ignore

package main

// This file provides a go:generate directive at the project root.
// Run `go generate` to expand the example templates under examples/.
//
// Usage:
//   go generate
//
// In another module, add this directive to any Go file:
//   //go:generate go run github.com/grindlemire/viewc/cmd/viewc generate ./...

//go:generate go run ./cmd/viewc generate --pretty ./examples/...
