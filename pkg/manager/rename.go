package manager

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"switchport/pkg"
	"switchport/pkg/registry"
	"switchport/pkg/types"
)

// Policy selects how new interface names are computed.
type Policy string

const (
	// PolicyPrefix names a port prefix + switch port name, e.g. "sw"+"p1".
	PolicyPrefix Policy = "prefix"
	// PolicyPortNumber maps a front-panel number to a base name; split
	// members get delimiter + split index appended.
	PolicyPortNumber Policy = "port-number"
	// PolicyPortMAC maps a MAC address to a name.
	PolicyPortMAC Policy = "port-mac"
	// PolicyAll applies every policy, the most specific one that yields a
	// name winning.
	PolicyAll Policy = "all"
)

// Defaults used by the prefix and port-number policies.
const (
	DefaultPrefix    = "sw"
	DefaultDelimiter = "s"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(s)); p {
	case PolicyPrefix, PolicyPortNumber, PolicyPortMAC, PolicyAll:
		return p, nil
	}
	return "", fmt.Errorf("invalid rename type %q: use prefix, port-number, port-mac or all", s)
}

// RenameOptions are the inputs of one rename run.
type RenameOptions struct {
	Policy    Policy
	Prefix    string
	Delimiter string
	// NumberMap maps front-panel numbers to base names.
	NumberMap map[string]string
	// MACMap maps lower-case colon MAC addresses to names.
	MACMap map[string]string
	// Shutdown takes the port down before renaming it.
	Shutdown bool
	// BringUp sets the port up after a successful rename.
	BringUp bool
	// Limit restricts the run to these front-panel numbers when not empty.
	Limit []string
}

// Rename is one applied name change.
type Rename struct {
	SwitchPort string `json:"switch_port"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// Rename applies the naming policy to the selected ports. A failed rename is
// logged and does not stop the others; only renames the kernel accepted are
// returned.
func (m *Manager) Rename(reg registry.Registry, opts RenameOptions) ([]Rename, error) {
	if _, err := ParsePolicy(string(opts.Policy)); err != nil {
		return nil, err
	}

	var limit map[string]bool
	if len(opts.Limit) > 0 {
		limit = make(map[string]bool, len(opts.Limit))
		for _, n := range opts.Limit {
			limit[n] = true
		}
	}

	var applied []Rename
	for _, port := range reg.Ports() {
		if limit != nil && !limit[port.FrontPanel] {
			continue
		}
		newName := targetName(port, opts)
		if newName == "" || newName == port.InterfaceName {
			continue
		}

		entry := pkg.WithFields(log.Fields{"port": port.InterfaceName, "new_name": newName})
		if opts.Shutdown {
			if err := m.runner.LinkSetDown(port.InterfaceName); err != nil {
				entry.WithError(err).Error("failed to bring port down before rename")
			}
		}
		if err := m.runner.LinkSetName(port.InterfaceName, newName); err != nil {
			entry.WithError(err).Error("rename failed")
			continue
		}
		entry.Info("renamed")
		if opts.BringUp {
			if err := m.runner.LinkSetUp(newName); err != nil {
				entry.WithError(err).Error("failed to bring port up after rename")
			}
		}
		applied = append(applied, Rename{SwitchPort: port.SwitchPortName, From: port.InterfaceName, To: newName})
	}
	return applied, nil
}

// targetName returns the name the policy assigns, or "" when the port lacks
// what the policy needs.
func targetName(port types.PortRecord, opts RenameOptions) string {
	switch opts.Policy {
	case PolicyPrefix:
		return prefixName(port, opts)
	case PolicyPortNumber:
		return portNumberName(port, opts)
	case PolicyPortMAC:
		return portMACName(port, opts)
	case PolicyAll:
		name := prefixName(port, opts)
		if n := portNumberName(port, opts); n != "" {
			name = n
		}
		if n := portMACName(port, opts); n != "" {
			name = n
		}
		return name
	}
	return ""
}

func prefixName(port types.PortRecord, opts RenameOptions) string {
	if port.SwitchPortName == "" {
		return ""
	}
	return opts.Prefix + port.SwitchPortName
}

func portNumberName(port types.PortRecord, opts RenameOptions) string {
	if port.FrontPanel == "" {
		return ""
	}
	base, ok := opts.NumberMap[port.FrontPanel]
	if !ok || base == "" {
		return ""
	}
	if port.IsSplit() {
		return base + opts.Delimiter + strconv.Itoa(*port.SplitIndex)
	}
	return base
}

func portMACName(port types.PortRecord, opts RenameOptions) string {
	if port.MACAddress == "" || len(opts.MACMap) == 0 {
		return ""
	}
	mac := port.MACAddress
	if hw, err := net.ParseMAC(mac); err == nil {
		mac = hw.String()
	}
	return opts.MACMap[mac]
}
