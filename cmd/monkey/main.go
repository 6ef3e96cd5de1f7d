// monkey runs, parses and tokenizes Monkey programs.
package main

import (
	"errors"
	"os"

	"github.com/golang/glog"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp(os.Stdout, os.Stderr)
	err := app.Run(os.Args)
	glog.Flush()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error returned by the app onto the process exit status.
func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return exitEval
}
