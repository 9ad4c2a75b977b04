package main

import (
	"fmt"
	"os"
)

func main() {
	installCleanupHandler()
	defer runCleanups()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "gsafe error:", err)
		runCleanups()
		os.Exit(1)
	}
}

func run() error {
	return newRootCommand().Execute()
}
