// Package parser turns the text printed by the link and devlink port listings
// into port record fragments. Every function here is pure: no process is run
// and nothing is logged, so the output format of the external tools can
// change without touching the registry.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"switchport/pkg/types"
)

// FormatVersion identifies the listing layout these parsers understand
// (iproute2 "ip -d link show" and "devlink port show" text output).
const FormatVersion = 1

var (
	recordStartRe = regexp.MustCompile(`^\d+:\s`)
	linkHeaderRe  = regexp.MustCompile(`^\d+:\s+([^:@\s]+)(?:@[^:\s]*)?:`)
	linkAddrRe    = regexp.MustCompile(`\blink/(\S+)\s+([0-9a-fA-F]{2}(?::[0-9a-fA-F]{2}){5})\b`)
	portNameRe    = regexp.MustCompile(`\bportname\s+(\S+)`)
	switchIDRe    = regexp.MustCompile(`\bswitchid\s+(\S+)`)
	switchPortRe  = regexp.MustCompile(`^p(\d+)(?:s(\d+))?$`)
	devlinkPortRe = regexp.MustCompile(`^(\S+):\s.*?\bnetdev\s+(\S+)`)
)

// PortFragment is what one devlink port line contributes to a record.
type PortFragment struct {
	PCIHandle     string
	InterfaceName string
}

// SplitLinkRecords cuts a link listing into one chunk per interface. A chunk
// starts on a line beginning with "<index>: " and runs until the next one.
func SplitLinkRecords(output string) []string {
	var (
		records []string
		current []string
	)
	for _, line := range strings.Split(output, "\n") {
		if recordStartRe.MatchString(line) {
			if len(current) > 0 {
				records = append(records, strings.Join(current, "\n"))
			}
			current = []string{line}
			continue
		}
		if len(current) > 0 && strings.TrimSpace(line) != "" {
			current = append(current, line)
		}
	}
	if len(current) > 0 {
		records = append(records, strings.Join(current, "\n"))
	}
	return records
}

// ParseLinkListing parses one interface chunk of the link listing. It returns
// false when the chunk has no interface name, no hardware address, or a link
// type other than ether or loopback.
func ParseLinkListing(record string) (types.PortRecord, bool) {
	header := linkHeaderRe.FindStringSubmatch(record)
	if header == nil {
		return types.PortRecord{}, false
	}
	addr := linkAddrRe.FindStringSubmatch(record)
	if addr == nil {
		return types.PortRecord{}, false
	}
	linkType := addr[1]
	if linkType != types.LinkTypeEther && linkType != types.LinkTypeLoopback {
		return types.PortRecord{}, false
	}

	port := types.PortRecord{
		InterfaceName: header[1],
		LinkType:      linkType,
		MACAddress:    strings.ToLower(addr[2]),
	}

	if m := portNameRe.FindStringSubmatch(record); m != nil {
		port.SwitchPortName = m[1]
		port.FrontPanel, port.SplitIndex = ParseSwitchPortName(m[1])
		if id := switchIDRe.FindStringSubmatch(record); id != nil {
			port.SwitchID = id[1]
		}
	}

	return port, true
}

// ParseSwitchPortName decomposes a switch port name such as "p3s1" into its
// front-panel number ("3") and split index (1). Names that do not follow the
// p<N>[s<M>] form yield an empty front panel and no index.
func ParseSwitchPortName(name string) (string, *int) {
	m := switchPortRe.FindStringSubmatch(name)
	if m == nil {
		return "", nil
	}
	frontPanel := strings.TrimLeft(m[1], "0")
	if frontPanel == "" {
		frontPanel = "0"
	}
	if m[2] == "" {
		return frontPanel, nil
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return frontPanel, nil
	}
	return frontPanel, &idx
}

// ParsePortListing parses one devlink port line, e.g.
//
//	pci/0000:01:00.0/1: type eth netdev swp1 flavour physical port 1 splittable true lanes 4
func ParsePortListing(line string) (PortFragment, bool) {
	m := devlinkPortRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return PortFragment{}, false
	}
	return PortFragment{PCIHandle: m[1], InterfaceName: m[2]}, true
}
