// Command jux signs, verifies, inspects, archives, and publishes JUnit
// test reports. Run `jux --help` for the command list.
package main

import (
	"os"

	"github.com/jrjsmrtn/go-jux/internal/adapters/driving/cli"
)

func main() {
	os.Exit(cli.New().Run(os.Args))
}
