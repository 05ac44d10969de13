package main

import (
	"log"

	"github.com/absmach/federator/federatord"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "federatord",
		Short: "Federator Daemon",
		Long:  `Federator Daemon is a daemon that manages the lifecycle of Federator components.`,
	}

	coordinatorCmd := federatord.NewCoordinatorCmd()
	participantCmd := federatord.NewParticipantCmd()

	rootCmd.AddCommand(coordinatorCmd)
	rootCmd.AddCommand(participantCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
