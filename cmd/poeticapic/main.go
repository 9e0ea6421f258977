package main

import (
	"fmt"
	"os"

	"github.com/menta2k/poeticapic/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
}
