// Package main provides the entry point for the skyview CLI tool.
package main

import (
	"github.com/agentstation/skyview/cmd/skyview/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.Execute(version, commit, date, builtBy)
}
