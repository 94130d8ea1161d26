package main

import (
	"errors"
	"fmt"
	"os"

	"blip/internal/render"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, render.ErrUsage) {
			fmt.Fprint(os.Stderr, cmd.UsageString())
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
