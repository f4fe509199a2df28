// synapsectl is the administrative CLI for synapsed: catalog/schema/table
// DDL and session config against the Engine Service, grounded on the
// teacher's cmd/clai entry point — main delegates straight to a cobra
// root command package, no TUI rendering layer.
package main

import (
	"os"

	"github.com/synapseql/synapse/internal/synapsectl"
)

func main() {
	if err := synapsectl.Execute(); err != nil {
		os.Exit(1)
	}
}
