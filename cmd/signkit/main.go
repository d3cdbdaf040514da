package main

import (
	"os"

	"github.com/gogpu/signkit/cmd/signkit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
