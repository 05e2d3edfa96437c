// Package main is the entry point for the dwh binary.
package main

import (
	"os"

	"sales-dwh/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
