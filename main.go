package main

import (
	"os"

	"github.com/sadopc/multitimer/internal/cmd"
)

func main() {
	// cobra has already printed the error
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
