// Package main is the entry point for the monad-testbot service.
package main

import (
	"os"

	"github.com/Barneybot002/monad-testbot/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
