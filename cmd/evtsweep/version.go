package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the evtsweep version",
		Run: func(*cobra.Command, []string) {
			fmt.Println("evtsweep " + version)
		},
	}
}
