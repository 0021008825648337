package main

import (
	"os"

	"github.com/rustyeddy/liqstress/cmd/liqstress/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
