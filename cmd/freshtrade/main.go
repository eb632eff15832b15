package main

import (
	"os"

	"github.com/phenrril/freshtrade/cmd/freshtrade/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
