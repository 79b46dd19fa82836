package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"switchport/pkg"
	"switchport/pkg/hwinfo"
	"switchport/pkg/registry"
	"switchport/pkg/types"
)

var (
	// Show command flags
	showFormat  string
	showDetails bool
)

var showCmd = &cobra.Command{
	Use:   "show [PORT]",
	Short: "Show switch ports",
	Long: `Show the discovered switch ports. PORT may be an interface name, a switch
port name, a MAC address or a front-panel number; it defaults to all.

Available formats:
  • table (default) - Pretty-printed table
  • json - JSON output
  • simple - Tab-separated values
  • detailed - Verbose text output

Examples:
  swport show                      # All ports
  swport show 3                    # Every port on front panel 3
  swport show swp1 --format json
  swport show --details            # Include driver and link state`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showFormat, "format", "table", "Output format: table, json, simple, detailed")
	showCmd.Flags().BoolVar(&showDetails, "details", false, "Include driver and link details from ethtool")
}

func runShow(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(showFormat)
	switch format {
	case "table", "json", "simple", "detailed":
	default:
		return fmt.Errorf("invalid format: %s", showFormat)
	}

	m, err := newManager()
	if err != nil {
		return err
	}
	reg, err := m.Collect()
	if err != nil {
		return fmt.Errorf("failed to read ports: %v", err)
	}

	pattern := registry.All
	if len(args) == 1 {
		pattern = args[0]
	}
	ports := reg.Find(pattern)
	if len(ports) == 0 {
		pkg.WithField("pattern", pattern).Warn("no port matches")
		return nil
	}

	var details map[string]hwinfo.Info
	if showDetails {
		details = lookupDetails(ports)
		if format == "table" {
			format = "detailed"
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), renderPorts(format, ports, details))
	return nil
}

// lookupDetails reads ethtool details; a missing ethtool socket only loses
// the extra columns.
func lookupDetails(ports []types.PortRecord) map[string]hwinfo.Info {
	reader, err := hwinfo.NewReader()
	if err != nil {
		pkg.WithError(err).Warn("ethtool unavailable, showing ports without details")
		return nil
	}
	defer reader.Close()

	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, p.InterfaceName)
	}
	return reader.LookupAll(names)
}

func renderPorts(format string, ports []types.PortRecord, details map[string]hwinfo.Info) string {
	switch format {
	case "json":
		return formatPortJSON(ports, details)
	case "simple":
		return formatPortSimple(ports)
	case "detailed":
		return formatPortDetailed(ports, details)
	default:
		return formatPortTable(ports)
	}
}
