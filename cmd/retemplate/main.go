// retemplate extracts placeholder values from text using {name} templates.
package main

import (
	"fmt"
	"os"

	"github.com/randalmurphal/retemplate/cmd/retemplate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
