package main

import (
	"fmt"
	"os"

	"github.com/tessellated-io/conveyor/cmd/conveyor/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
