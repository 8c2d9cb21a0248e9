// Package main is the entry point for the leadctl console CLI.
package main

import (
	"os"

	"leadconsole/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
