package main

import (
	"os"

	"github.com/conneroisu/thema/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
