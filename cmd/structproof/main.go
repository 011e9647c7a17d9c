// Package main provides the entry point for the structproof CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/raphaelgruber/structproof/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
