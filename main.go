package main

import (
	"os"

	"github.com/diffpatch/diffpatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
