package main

import (
	"os"

	"github.com/arthur-debert/envsync/cmd/envsync"
	"github.com/arthur-debert/envsync/pkg/report"
)

func main() {
	rootCmd := envsync.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		envsync.PrintError(os.Stderr, report.DetectFormat(os.Stderr), err)
		os.Exit(1)
	}
}
