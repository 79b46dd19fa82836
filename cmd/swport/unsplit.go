package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"switchport/internal/config"
	"switchport/pkg/manager"
	"switchport/pkg/registry"
)

var (
	// Unsplit command flags
	unsplitRename bool
	unsplitNaming namingFlags
)

var unsplitCmd = &cobra.Command{
	Use:   "unsplit PORT...|all",
	Short: "Rejoin split front-panel ports",
	Long: `Unsplit front-panel ports. Ports may be given as numbers or ranges.

Examples:
  swport unsplit 1
  swport unsplit 1-4,7
  swport unsplit all --rename`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUnsplit,
}

func init() {
	rootCmd.AddCommand(unsplitCmd)

	unsplitCmd.Flags().BoolVar(&unsplitRename, "rename", false, "Rename ports with the prefix policy after unsplitting")
	addNamingFlags(unsplitCmd.Flags(), &unsplitNaming)
}

func runUnsplit(cmd *cobra.Command, args []string) error {
	m, err := newManager()
	if err != nil {
		return err
	}
	reg, err := m.Collect()
	if err != nil {
		return fmt.Errorf("failed to read ports: %v", err)
	}

	prefix, delim := unsplitNaming.resolve(cmd.Flags(), cfg)
	renames, err := m.UnsplitMany(reg, expandSelection(args), manager.UnsplitOptions{
		AutoRename: unsplitRename,
		Prefix:     prefix,
		Delimiter:  delim,
	})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatRenames(renames))
	return nil
}

// expandSelection expands number ranges like "1-4,7" and passes any other
// argument, such as "all" or an interface name, through unchanged.
func expandSelection(args []string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	for _, arg := range args {
		if arg == registry.All {
			return []string{registry.All}
		}
		if ports, err := config.ParsePortList(arg); err == nil {
			for _, p := range ports {
				add(p)
			}
			continue
		}
		add(arg)
	}
	return out
}
