// Command formstudio is a terminal playground for form examples: it edits the
// schema, UI schema, data and i18n buffers of an example, applies them to a
// live form state and renders that form in the terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	root := newRootCommand(newApp(os.Stdout, os.Stderr))
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
