package main

import (
	"context"
	"os"

	"tunehub.io/tunehub-server/cmd/tunehub-server/cmd"
)

func main() {
	command := cmd.RootCmd
	if err := command.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
