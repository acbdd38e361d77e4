package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/envsync/cmd/envsync"
	"github.com/arthur-debert/envsync/internal/version"
)

func main() {
	rootCmd := envsync.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "ENVSYNC",
		Section: "1",
		Source:  version.Short(),
		Manual:  "envsync manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
