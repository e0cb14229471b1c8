package main

import (
	"github.com/dyike/NamaaGo/internal/cli"
)

func main() {
	// Execute the root command
	cli.Run()
}
