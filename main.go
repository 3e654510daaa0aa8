package main

import (
	"os"

	"github.com/ThomasCrouzet/homestack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
