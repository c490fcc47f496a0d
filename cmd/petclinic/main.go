package main

import (
	"os"

	"pet-clinic-registry/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
