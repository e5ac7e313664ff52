package main

import (
	"os"

	"github.com/streampay-labs/timelock/cmd/streamd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
