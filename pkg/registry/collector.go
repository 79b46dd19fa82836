package registry

import (
	"net"
	"strings"

	"github.com/pkg/errors"

	"switchport/pkg"
	"switchport/pkg/iproute"
	"switchport/pkg/parser"
	"switchport/pkg/types"
)

// ErrNoData is returned when the link listing fails or is empty. Without it
// there is nothing to build a registry from.
var ErrNoData = errors.New("no port data")

// Lister is the subset of iproute.Runner the collector needs.
type Lister interface {
	LinkList() (string, error)
	PortList() (string, error)
}

var _ Lister = (iproute.Runner)(nil)

// Collector builds registry snapshots from the live listings.
type Collector struct {
	lister Lister
}

// NewCollector creates a collector reading from the given tools.
func NewCollector(lister Lister) *Collector {
	return &Collector{lister: lister}
}

// Collect runs both listings and merges them into a fresh snapshot. The link
// listing is required; the devlink port listing only adds PCI handles and is
// skipped with a warning when it fails.
func (c *Collector) Collect() (Registry, error) {
	out, err := c.lister.LinkList()
	if err != nil {
		return Registry{}, errors.Wrap(ErrNoData, err.Error())
	}
	if strings.TrimSpace(out) == "" {
		return Registry{}, errors.Wrap(ErrNoData, "link listing is empty")
	}

	ports := make(map[string]types.PortRecord)
	for _, record := range parser.SplitLinkRecords(out) {
		port, ok := parser.ParseLinkListing(record)
		if !ok {
			pkg.WithField("record", firstLine(record)).Debug("skipping unparsable link record")
			continue
		}
		ports[port.InterfaceName] = port
	}

	out, err = c.lister.PortList()
	if err != nil {
		pkg.WithError(err).Warn("devlink port listing failed, ports will have no PCI handle")
	} else {
		for _, line := range strings.Split(out, "\n") {
			frag, ok := parser.ParsePortListing(line)
			if !ok {
				continue
			}
			port, found := ports[frag.InterfaceName]
			if !found {
				pkg.WithPort(frag.InterfaceName).Debug("devlink port has no matching link")
				continue
			}
			port.PCIHandle = frag.PCIHandle
			ports[frag.InterfaceName] = port
		}
	}

	deriveSplitGroups(ports)
	pkg.Debug("collected %d ports", len(ports))
	return Registry{ports: ports}, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// normalizeMAC returns the lower-case colon form of a MAC address, or the
// input unchanged when it is not one.
func normalizeMAC(s string) string {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return s
	}
	return hw.String()
}
