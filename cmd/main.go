// cmd/main.go is the application entry point.
package main

import (
	"fmt"
	"os"

	"github.com/Shivanand-hulikatti/festival-events/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
