package main

import (
	"os"

	"go-newscrew/cmd/newscrew/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
