package main

import (
	"os"

	"github.com/thiagokokada/gx-go/cmd"
)

func main() {
	if err := cmd.Run(); err != nil {
		cmd.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
