package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conneroisu/thema/internal/content"
)

// watchCmd watches the definition directory and reports changes as they are
// picked up.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch content-type definitions for changes",
	Long: `Watch the configured definition directory and report additions,
updates, and removals as definition files change. Runs until interrupted.`,
	RunE: runWatchCommand,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry := content.NewDefinitionRegistry()
	events := registry.Watch()
	defer registry.UnWatch(events)

	watcher, err := content.NewDefinitionWatcher(cfg.Definitions.Path, registry, newLogger(cfg))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Definitions.Path, err)
	}
	defer watcher.Stop()

	if err := watcher.Start(cmd.Context()); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s (%d definitions)\n", cfg.Definitions.Path, registry.Count())

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)

	for {
		select {
		case event := <-events:
			name := ""
			if event.Definition != nil {
				name = event.Definition.Name
			}
			fmt.Fprintf(out, "%s %s\n", event.Type, name)
		case <-interrupts:
			return nil
		case <-cmd.Context().Done():
			return nil
		}
	}
}
