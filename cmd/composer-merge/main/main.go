package main

import (
	"fmt"
	"os"

	composermerge "github.com/arthur-debert/composer-merge/cmd/composer-merge"
	"github.com/arthur-debert/composer-merge/pkg/logging"
)

func main() {
	// quiet until the root command applies the verbosity flags
	logging.SetupLogger(0, "")

	rootCmd := composermerge.NewRootCmd()
	err := rootCmd.Execute()
	code := composermerge.ExitCode(err)

	// Conflicts are reported through the exit status and the markers in the
	// merged file
	if err != nil && code != composermerge.ExitConflicts {
		fmt.Fprintln(os.Stderr, composermerge.FormatError(os.Stderr, err))
	}

	os.Exit(code)
}
