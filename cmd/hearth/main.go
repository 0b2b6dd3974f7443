// Command hearth plans light settings for smart home scenarios.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	app := NewApp()

	if err := app.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
