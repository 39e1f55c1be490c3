package main

import (
	"os"

	"usikit/cmd/usirun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
