// cmd/route.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hansungk/netsim-go/sim"
)

var (
	routeTopology string
	routeN        int
	routeSrc      int
	routeDst      int
)

// routeCmd is a thin wrapper around sim.Route: a debugging/verification
// utility that prints the port path a packet would take without
// running any simulation.
var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Print the port path a source-routed packet would take",
	Run:   runRoute,
}

func init() {
	routeCmd.Flags().StringVar(&routeTopology, "topology", "ring", "topology kind: ring")
	routeCmd.Flags().IntVar(&routeN, "n", 4, "ring size")
	routeCmd.Flags().IntVar(&routeSrc, "src", 0, "source terminal id")
	routeCmd.Flags().IntVar(&routeDst, "dst", 0, "destination terminal id")
}

func runRoute(cmd *cobra.Command, args []string) {
	if routeTopology != "ring" {
		fmt.Fprintf(os.Stderr, "netsim route: only --topology ring is supported, got %q\n", routeTopology)
		os.Exit(1)
	}
	if routeSrc < 0 || routeSrc >= routeN || routeDst < 0 || routeDst >= routeN {
		fmt.Fprintf(os.Stderr, "netsim route: src/dst must be in [0, %d)\n", routeN)
		os.Exit(1)
	}

	td := sim.TopoDesc{Kind: sim.TopoRing, K: routeN, R: 1}
	path := sim.Route(td, routeSrc, routeDst)
	fmt.Println(path)
}
