package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/aura"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of aura",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aura version %s\n", aura.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
