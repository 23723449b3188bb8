// Command shelf runs the book tracking service and its maintenance tasks.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

//go:generate swag init -g internal/shelf/http/router.go -d ../../ -o ../../api/shelf --instanceName shelf --packageName shelf

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
