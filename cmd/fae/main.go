package main

import (
	"os"

	"github.com/bianoble/fae/cmd/fae/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
