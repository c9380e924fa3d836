package main

import (
	"os"

	"cosmic/cmd/cosmic/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
