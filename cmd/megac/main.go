// Command megac compiles state models into derivations and decision
// procedures.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/megac/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
