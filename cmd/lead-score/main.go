package main

import (
	"fmt"
	"os"

	"lead_analyzer_backend/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lead-score:", err)
		os.Exit(1)
	}
}
