package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const updateRepo = "crn4/kr"

func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update kr to the latest released version",
		Long: `Checks for the latest release on GitHub and, if it is newer than the
running version, replaces the current binary in place.`,
		RunE: runSelfUpdate,
	}
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	current := rootCmd.Version
	if current == "" || current == "dev" {
		return fmt.Errorf("cannot self-update a development version (%q); install a released build first", current)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(updateRepo))
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", updateRepo)
	}
	if latest.LessOrEqual(current) {
		fmt.Printf("kr %s is already the latest version\n", current)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating current executable: %w", err)
	}
	fmt.Printf("Updating kr %s -> %s...\n", current, latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("updating to %s: %w", latest.Version(), err)
	}
	fmt.Printf("Updated to kr %s\n", latest.Version())
	return nil
}
