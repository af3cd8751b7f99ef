package cmd

import (
	"tuneshelf/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the tuneshelf HTTP server",
	Long:  `Start the HTTP server providing the auth, track and playlist APIs plus the track index page.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
