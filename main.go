// Command oddear runs an odd-one-out audio CAPTCHA in the terminal.
package main

import (
	"os"

	"github.com/zjrosen/oddear/cmd"
)

// Set by the release build via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cmd.Execute(version); err != nil {
		os.Exit(1)
	}
}
