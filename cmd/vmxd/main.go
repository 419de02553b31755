// Package main is the entry point for the vmxd daemon.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/thoreinstein/vmx/cmd/vmxd/commands"
	vmxerrors "github.com/thoreinstein/vmx/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}

	var exitErr *vmxerrors.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Suggestion != "" {
			fmt.Fprintln(os.Stderr, exitErr.Suggestion)
		}
		os.Exit(exitErr.Code)
	}

	os.Exit(vmxerrors.ExitUser)
}
