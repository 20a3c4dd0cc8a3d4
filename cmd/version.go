package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of kr",
		Long:  `Prints the version this kr binary was built from.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kr version %s\n", rootCmd.Version)
		},
	}
}
