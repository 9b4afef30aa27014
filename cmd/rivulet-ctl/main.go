// Command rivulet-ctl is the operator-facing build/deploy CLI skeleton
// (spec §6 expansion).
package main

import (
	"os"

	"github.com/riverflow-io/riverflow/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
