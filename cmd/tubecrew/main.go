package main

import (
	"fmt"
	"os"

	"github.com/soyeahso/tubecrew/internal/cli"
	"github.com/tillberg/autorestart"
)

func main() {
	if os.Getenv("TUBECREW_AUTORESTART") == "1" {
		go autorestart.RestartOnChange()
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
