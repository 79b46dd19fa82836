package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"switchport/pkg/manager"
)

var (
	// Reset command flags
	resetSkip     []string
	resetShutdown bool
)

var resetCmd = &cobra.Command{
	Use:   "reset PORT...|all",
	Short: "Clear port configuration",
	Long: `Reset ports to a clean state: flush addresses, routes and neighbours and
bring the port back up. The loopback interface keeps 127.0.0.1/8 and ::1/128.

Examples:
  swport reset swp1 swp2
  swport reset 3                 # Every port on front panel 3
  swport reset all --skip eth0 --skip lo
  swport reset all --shutdown    # Leave the ports down`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().StringSliceVar(&resetSkip, "skip", nil, "Interfaces to leave untouched (repeatable)")
	resetCmd.Flags().BoolVar(&resetShutdown, "shutdown", false, "Leave ports down after the reset")
}

func runReset(cmd *cobra.Command, args []string) error {
	m, err := newManager()
	if err != nil {
		return err
	}
	reg, err := m.Collect()
	if err != nil {
		return fmt.Errorf("failed to read ports: %v", err)
	}

	skip := resetSkip
	if !cmd.Flags().Changed("skip") {
		skip = cfg.Reset.Skip
	}

	done := m.Reset(reg, expandSelection(args), manager.ResetOptions{
		Skip:     skip,
		Shutdown: resetShutdown,
	})
	for _, name := range done {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
