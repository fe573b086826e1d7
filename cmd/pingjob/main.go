package main

import (
	"os"

	"github.com/d60-Lab/pingjob/cmd/pingjob/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
