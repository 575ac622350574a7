// ABOUTME: Entry point for the hostdesk CLI
// ABOUTME: Property management for hosts from the terminal

package main

import (
	"os"

	"github.com/markalston/hostdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(2)
	}
}
