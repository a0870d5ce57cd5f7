// FILE: logdot/src/cmd/logdot/main.go
package main

import (
	"errors"
	"os"

	"logdot/src/cmd/logdot/commands"
)

func main() {
	args, quiet := stripQuiet(os.Args)
	InitOutputHandler(quiet)

	router := commands.NewCommandRouter()
	handled, err := router.Route(args)
	if err != nil {
		// Child exit status from `logdot run` passes through unchanged
		var exitErr *commands.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		FatalError(1, "Error: %v\n", err)
	}

	if !handled {
		if err := router.ShowHelp(); err != nil {
			FatalError(1, "Error: %v\n", err)
		}
		os.Exit(2)
	}
}

// stripQuiet removes a leading -q/--quiet so commands never see it.
func stripQuiet(args []string) ([]string, bool) {
	if len(args) > 1 && (args[1] == "-q" || args[1] == "--quiet") {
		out := make([]string, 0, len(args)-1)
		out = append(out, args[0])
		return append(out, args[2:]...), true
	}
	return args, false
}
