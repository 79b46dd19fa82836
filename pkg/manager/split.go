package manager

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"switchport/pkg"
	"switchport/pkg/registry"
)

// SplitRequest asks for one front-panel port to be broken out.
type SplitRequest struct {
	Port  string `json:"port" yaml:"port"`
	Count int    `json:"count" yaml:"count"`
}

// SplitOptions control the batch split.
type SplitOptions struct {
	// AutoRename applies the prefix policy once the new ports have settled.
	AutoRename bool
	// UnsplitMissing first unsplits every split port whose current layout
	// is not in the request set.
	UnsplitMissing bool
	Prefix         string
	Delimiter      string
}

// UnsplitOptions control the batch unsplit.
type UnsplitOptions struct {
	AutoRename bool
	Prefix     string
	Delimiter  string
}

// ValidSplitCount reports whether the hardware supports the break-out count.
func ValidSplitCount(count int) bool {
	return count == 2 || count == 4
}

// Split breaks out one front-panel port. The port is taken down and the
// split is issued against its devlink handle; the snapshot is not updated
// because the new ports only appear after the hardware has settled.
func (m *Manager) Split(reg registry.Registry, port string, count int) error {
	if !ValidSplitCount(count) {
		return fmt.Errorf("port %s: invalid split count %d, must be 2 or 4", port, count)
	}
	members := reg.FrontPanel(port)
	if len(members) == 0 {
		return fmt.Errorf("port %s: no such front-panel port", port)
	}
	first := members[0]
	if first.IsSplit() {
		return fmt.Errorf("port %s: already split into %d", port, first.SplitCount)
	}
	if first.PCIHandle == "" {
		return fmt.Errorf("port %s: %s has no devlink handle", port, first.InterfaceName)
	}

	entry := pkg.WithFields(log.Fields{"port": first.InterfaceName, "front_panel": port, "handle": first.PCIHandle})
	if err := m.runner.LinkSetDown(first.InterfaceName); err != nil {
		entry.WithError(err).Warn("failed to bring port down before split")
	}
	if err := m.runner.PortSplit(first.PCIHandle, count); err != nil {
		return fmt.Errorf("port %s: split failed: %v", port, err)
	}
	entry.WithField("count", count).Info("split issued")
	return nil
}

// Unsplit collapses the split group on a front-panel port. Every member is
// taken down and a single unsplit is issued against the first member's
// handle. The returned snapshot has the group's split metadata cleared.
func (m *Manager) Unsplit(reg registry.Registry, port string) (registry.Registry, error) {
	members := reg.FrontPanel(port)
	if len(members) == 0 {
		return reg, fmt.Errorf("port %s: no such front-panel port", port)
	}
	first := members[0]
	if !first.IsSplit() {
		return reg, fmt.Errorf("port %s: not split", port)
	}
	if first.PCIHandle == "" {
		return reg, fmt.Errorf("port %s: %s has no devlink handle", port, first.InterfaceName)
	}

	for _, member := range members {
		if err := m.runner.LinkSetDown(member.InterfaceName); err != nil {
			pkg.WithPort(member.InterfaceName).WithError(err).Warn("failed to bring port down before unsplit")
		}
	}
	reg = reg.WithoutSplit(port)

	if err := m.runner.PortUnsplit(first.PCIHandle); err != nil {
		return reg, fmt.Errorf("port %s: unsplit failed: %v", port, err)
	}
	pkg.WithFields(log.Fields{"port": first.InterfaceName, "front_panel": port, "handle": first.PCIHandle}).Info("unsplit issued")
	return reg, nil
}

// SplitMany applies a set of split requests. With UnsplitMissing the split
// layout is first reduced to the requested one; with AutoRename the ports
// are renamed with the prefix policy once the hardware has settled.
func (m *Manager) SplitMany(reg registry.Registry, requests []SplitRequest, opts SplitOptions) ([]Rename, error) {
	if opts.UnsplitMissing {
		wanted := make(map[SplitRequest]bool, len(requests))
		for _, r := range requests {
			wanted[r] = true
		}
		groups := reg.SplitGroups()
		var issued int
		for _, fp := range reg.SplitFrontPanels() {
			if wanted[SplitRequest{Port: fp, Count: groups[fp]}] {
				continue
			}
			var err error
			if reg, err = m.Unsplit(reg, fp); err != nil {
				pkg.WithField("front_panel", fp).WithError(err).Warn("unsplit skipped")
				continue
			}
			issued++
		}

		var err error
		if issued > 0 {
			reg, err = m.settleAndCollect()
		} else {
			reg, err = m.collector.Collect()
		}
		if err != nil {
			return nil, err
		}
	}

	for _, r := range requests {
		if err := m.Split(reg, r.Port, r.Count); err != nil {
			pkg.WithField("front_panel", r.Port).WithError(err).Warn("split skipped")
		}
	}

	if !opts.AutoRename {
		return nil, nil
	}
	return m.renameAfterSettle(opts.Prefix, opts.Delimiter)
}

// UnsplitMany unsplits the given front-panel ports, or every split port when
// the selection contains "all".
func (m *Manager) UnsplitMany(reg registry.Registry, ports []string, opts UnsplitOptions) ([]Rename, error) {
	for _, p := range ports {
		if p == registry.All {
			ports = reg.SplitFrontPanels()
			break
		}
	}

	for _, p := range ports {
		var err error
		if reg, err = m.Unsplit(reg, p); err != nil {
			pkg.WithField("front_panel", p).WithError(err).Warn("unsplit skipped")
		}
	}

	if !opts.AutoRename {
		return nil, nil
	}
	return m.renameAfterSettle(opts.Prefix, opts.Delimiter)
}

func (m *Manager) renameAfterSettle(prefix, delimiter string) ([]Rename, error) {
	reg, err := m.settleAndCollect()
	if err != nil {
		return nil, err
	}
	return m.Rename(reg, RenameOptions{
		Policy:    PolicyPrefix,
		Prefix:    prefix,
		Delimiter: delimiter,
	})
}
