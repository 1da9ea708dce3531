package main

import (
	"os"

	"github.com/bianoble/pie-audit/cmd/pie-audit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
