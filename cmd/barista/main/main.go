package main

import (
	"fmt"
	"os"

	"github.com/scawful/barista/cmd/barista"
	"github.com/scawful/barista/pkg/style"
)

func main() {
	rootCmd := barista.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
