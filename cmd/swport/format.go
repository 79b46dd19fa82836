package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"switchport/pkg/hwinfo"
	"switchport/pkg/manager"
	"switchport/pkg/types"
)

// portOutput is the JSON view of a port, optionally with ethtool details.
type portOutput struct {
	types.PortRecord
	Details *hwinfo.Info `json:"details,omitempty"`
}

// Formatting functions
func formatPortJSON(ports []types.PortRecord, details map[string]hwinfo.Info) string {
	output := make([]portOutput, 0, len(ports))
	for _, port := range ports {
		out := portOutput{PortRecord: port}
		if info, ok := details[port.InterfaceName]; ok {
			info := info
			out.Details = &info
		}
		output = append(output, out)
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data) + "\n"
}

func formatPortSimple(ports []types.PortRecord) string {
	var builder strings.Builder
	for _, port := range ports {
		builder.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\n",
			port.InterfaceName, orDash(port.SwitchPortName), orDash(port.MACAddress), orDash(port.PCIHandle)))
	}
	return builder.String()
}

const (
	tableTop    = "┌─────────────────┬─────────────┬─────────┬─────────┬───────────────────┬────────────────────────┐\n"
	tableHeader = "│ Interface       │ Switch Port │ Panel   │ Split   │ MAC Address       │ PCI Handle             │\n"
	tableSep    = "├─────────────────┼─────────────┼─────────┼─────────┼───────────────────┼────────────────────────┤\n"
	tableBottom = "└─────────────────┴─────────────┴─────────┴─────────┴───────────────────┴────────────────────────┘\n"
)

func formatPortTable(ports []types.PortRecord) string {
	var builder strings.Builder
	builder.WriteString(tableTop)
	builder.WriteString(tableHeader)
	builder.WriteString(tableSep)

	for _, port := range ports {
		builder.WriteString(fmt.Sprintf("│ %-15s │ %-11s │ %-7s │ %-7s │ %-17s │ %-22s │\n",
			truncateString(port.InterfaceName, 15),
			truncateString(orDash(port.SwitchPortName), 11),
			truncateString(orDash(port.FrontPanel), 7),
			splitLabel(port),
			orDash(port.MACAddress),
			truncateString(orDash(port.PCIHandle), 22)))
	}

	builder.WriteString(tableBottom)
	return builder.String()
}

func formatPortDetailed(ports []types.PortRecord, details map[string]hwinfo.Info) string {
	var builder strings.Builder
	for _, port := range ports {
		builder.WriteString(fmt.Sprintf("Port: %s\n", port.InterfaceName))
		builder.WriteString(fmt.Sprintf("  Link Type: %s\n", port.LinkType))
		builder.WriteString(fmt.Sprintf("  MAC Address: %s\n", orDash(port.MACAddress)))
		builder.WriteString(fmt.Sprintf("  Switch Port: %s\n", orDash(port.SwitchPortName)))
		builder.WriteString(fmt.Sprintf("  Switch ID: %s\n", orDash(port.SwitchID)))
		builder.WriteString(fmt.Sprintf("  Front Panel: %s\n", orDash(port.FrontPanel)))
		builder.WriteString(fmt.Sprintf("  Split: %s\n", splitLabel(port)))
		builder.WriteString(fmt.Sprintf("  PCI Handle: %s\n", orDash(port.PCIHandle)))
		if info, ok := details[port.InterfaceName]; ok {
			builder.WriteString(fmt.Sprintf("  Driver: %s\n", orDash(info.Driver)))
			builder.WriteString(fmt.Sprintf("  Bus Info: %s\n", orDash(info.BusInfo)))
			link := "-"
			if info.LinkUp != nil {
				link = "down"
				if *info.LinkUp {
					link = "up"
				}
			}
			builder.WriteString(fmt.Sprintf("  Link: %s\n", link))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

// formatRenames prints one line per applied rename.
func formatRenames(renames []manager.Rename) string {
	var builder strings.Builder
	for _, r := range renames {
		builder.WriteString(fmt.Sprintf("%s -> %s", r.From, r.To))
		if r.SwitchPort != "" {
			builder.WriteString(fmt.Sprintf(" (%s)", r.SwitchPort))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

// splitLabel renders "index/count" for split members.
func splitLabel(port types.PortRecord) string {
	if !port.IsSplit() {
		return "-"
	}
	return fmt.Sprintf("%d/%d", *port.SplitIndex, port.SplitCount)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
