package main

import (
	"os"

	"github.com/msto63/resb/cmd/resb/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
