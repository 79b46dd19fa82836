package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"switchport/internal/config"
	"switchport/pkg/manager"
)

var (
	// Split command flags
	splitRename  bool
	splitUnsplit bool
	splitNaming  namingFlags
)

var splitCmd = &cobra.Command{
	Use:   "split PORT=COUNT...",
	Short: "Break out front-panel ports",
	Long: `Split front-panel ports into 2 or 4 ports each.

The new ports appear once the hardware has settled. With --rename they are
then renamed with the prefix policy; with --unsplit every split port not
listed with its current count is unsplit first.

Examples:
  swport split 1=4
  swport split 1=4 2=2 --rename --prefix sw
  swport split 1=4 --unsplit       # Port 1 is the only split port afterwards`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().BoolVar(&splitRename, "rename", false, "Rename ports with the prefix policy after splitting")
	splitCmd.Flags().BoolVar(&splitUnsplit, "unsplit", false, "Unsplit split ports that are not in the request")
	addNamingFlags(splitCmd.Flags(), &splitNaming)
}

func runSplit(cmd *cobra.Command, args []string) error {
	parsed, err := config.ParseSplitRequests(args)
	if err != nil {
		return err
	}
	requests := make([]manager.SplitRequest, 0, len(parsed))
	for _, r := range parsed {
		if !manager.ValidSplitCount(r.Count) {
			return fmt.Errorf("invalid split count %d for port %s: use 2 or 4", r.Count, r.Port)
		}
		requests = append(requests, manager.SplitRequest{Port: r.Port, Count: r.Count})
	}

	m, err := newManager()
	if err != nil {
		return err
	}
	reg, err := m.Collect()
	if err != nil {
		return fmt.Errorf("failed to read ports: %v", err)
	}

	prefix, delim := splitNaming.resolve(cmd.Flags(), cfg)
	renames, err := m.SplitMany(reg, requests, manager.SplitOptions{
		AutoRename:     splitRename,
		UnsplitMissing: splitUnsplit,
		Prefix:         prefix,
		Delimiter:      delim,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatRenames(renames))
	return nil
}
