package main

import (
	"os"

	"github.com/finad-dev/finad/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
