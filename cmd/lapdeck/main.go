package main

import (
	"os"

	"github.com/lapdeck/lapdeck/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
