package main

import (
	"os"

	"github.com/Kanokkarn13/carbon-clean-app-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
