// Package main is the entry point for opteam - 1Password team administration.
package main

import (
	"os"

	"github.com/oncallops/opteam/cmd/opteam/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
