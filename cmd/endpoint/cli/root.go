// Package cli is the endpoint core's command-line surface, built on
// cobra. "serve" runs the core itself; the rest are operator utilities
// that talk to a running instance's HTTP surface (spec §6).
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "endpoint",
	Short: "RayTag laser-tag endpoint core",
	Long: `endpoint runs the on-device core for a laser-tag weapon or target
station: the game engine, the peer-to-peer event bus, the admin
WebSocket protocol, and the provisioning/station HTTP surfaces.

Most subcommands other than "serve" are operator utilities that talk to
a running instance over HTTP; they do not touch NVS directly, since on
real hardware that storage lives behind the flash driver this CLI does
not run on.`,
	Version: "2.2.0",
}

var baseURL string

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:80", "base URL of a running endpoint's HTTP surface")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
