// Command langsync keeps the translation files of every language in line
// with the English base files.
//
//	langsync process --root resources/lang --suffix " (untranslated)"
//
// Configuration is read from langsync.yaml, .env files and LANGSYNC_*
// environment variables. Command line flags take precedence over all of them.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
