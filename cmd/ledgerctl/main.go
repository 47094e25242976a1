package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/familytree/ledger/internal/cli"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
