package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"switchport/internal/config"
	"switchport/pkg/manager"
)

var (
	// Rename command flags
	renameType     string
	renameNumbers  []string
	renameMACs     []string
	renameShutdown bool
	renameBringUp  bool
	renameLimit    string
	renameNaming   namingFlags
)

var renameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename switch ports",
	Long: `Rename switch ports by policy.

Policies:
  • prefix - <prefix><switch port name>, e.g. p5 -> swp5, p3s1 -> swp3s1
  • port-number - base name from --map keyed by front-panel number
  • port-mac - name from --mac-map keyed by MAC address
  • all - mac map first, then number map, then prefix

Examples:
  swport rename --type prefix --prefix sw
  swport rename --type port-number --map 1=uplink --map 2=downlink
  swport rename --type port-mac --mac-map 11:22:33:44:55:66=mgmt0
  swport rename --limit 1-4 --shutdown --bringup`,
	Args: cobra.NoArgs,
	RunE: runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)

	flags := renameCmd.Flags()
	flags.StringVar(&renameType, "type", string(manager.PolicyPrefix), "Rename policy: prefix, port-number, port-mac, all")
	flags.StringSliceVar(&renameNumbers, "map", nil, "Front-panel number to name, as NUMBER=NAME (repeatable)")
	flags.StringSliceVar(&renameMACs, "mac-map", nil, "MAC address to name, as MAC=NAME (repeatable)")
	flags.BoolVar(&renameShutdown, "shutdown", false, "Take each port down before renaming it")
	flags.BoolVar(&renameBringUp, "bringup", false, "Set each port up after renaming it")
	flags.StringVar(&renameLimit, "limit", "", "Only rename these front-panel ports, e.g. 1-4,7")
	addNamingFlags(flags, &renameNaming)
}

// namingFlags are the prefix and delimiter shared by rename, split and unsplit.
type namingFlags struct {
	prefix string
	delim  string
}

func addNamingFlags(fs *pflag.FlagSet, nf *namingFlags) {
	fs.StringVar(&nf.prefix, "prefix", manager.DefaultPrefix, "Name prefix for the prefix policy")
	fs.StringVar(&nf.delim, "delim", manager.DefaultDelimiter, "Delimiter between base name and split index")
}

// resolve returns the flag values, falling back to the configuration file
// for flags that were not given.
func (nf namingFlags) resolve(fs *pflag.FlagSet, c *config.Config) (string, string) {
	prefix, delim := nf.prefix, nf.delim
	if !fs.Changed("prefix") && c.Rename.Prefix != "" {
		prefix = c.Rename.Prefix
	}
	if !fs.Changed("delim") && c.Rename.Delimiter != "" {
		delim = c.Rename.Delimiter
	}
	return prefix, delim
}

func runRename(cmd *cobra.Command, args []string) error {
	opts, err := buildRenameOptions(cmd.Flags(), cfg)
	if err != nil {
		return err
	}

	m, err := newManager()
	if err != nil {
		return err
	}
	reg, err := m.Collect()
	if err != nil {
		return fmt.Errorf("failed to read ports: %v", err)
	}

	renames, err := m.Rename(reg, opts)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), formatRenames(renames))
	return nil
}

// buildRenameOptions merges the rename flags over the configuration file.
func buildRenameOptions(fs *pflag.FlagSet, c *config.Config) (manager.RenameOptions, error) {
	policy, err := manager.ParsePolicy(renameType)
	if err != nil {
		return manager.RenameOptions{}, err
	}

	numbers, err := config.ParseNumberMap(renameNumbers)
	if err != nil {
		return manager.RenameOptions{}, err
	}
	macs, err := config.ParseMACMap(renameMACs)
	if err != nil {
		return manager.RenameOptions{}, err
	}

	var limit []string
	if renameLimit != "" {
		if limit, err = config.ParsePortList(renameLimit); err != nil {
			return manager.RenameOptions{}, err
		}
	}

	prefix, delim := renameNaming.resolve(fs, c)
	return manager.RenameOptions{
		Policy:    policy,
		Prefix:    prefix,
		Delimiter: delim,
		NumberMap: mergeMaps(c.Rename.NumberMap, numbers),
		MACMap:    mergeMaps(c.Rename.MACMap, macs),
		Shutdown:  renameShutdown,
		BringUp:   renameBringUp,
		Limit:     limit,
	}, nil
}

// mergeMaps returns base overlaid with override.
func mergeMaps(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
