package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/crn4/kr/internal/tui"
)

var kubectlCommand string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kr",
	Short: "Interactive terminal client for Kubernetes",
	Long: `kr is a keyboard-driven terminal UI for day-to-day Kubernetes work:
browsing pods, deployments and secrets, tailing and searching logs,
opening shells into pods, and switching contexts and namespaces.

With -c it instead runs a one-off kubectl command and exits.`,
	// SilenceUsage prevents printing the usage message on errors we
	// already report ourselves.
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if kubectlCommand != "" {
			return runKubectl(kubectlCommand)
		}
		return tui.Run()
	},
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "kr version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.Flags().StringVarP(&kubectlCommand, "command", "c", "",
		"run a one-off kubectl command (e.g. -c 'get nodes') and exit")
}
