// Package registry holds the in-memory port index built from one pass over
// the link and devlink port listings.
package registry

import (
	"sort"
	"strconv"

	"switchport/pkg/types"
)

// All selects every port in Find and in the engines' selections.
const All = "all"

// Registry is an immutable snapshot of the switch ports keyed by kernel
// interface name. Methods never modify the receiver; operations that need to
// reflect a change return a new snapshot.
type Registry struct {
	ports map[string]types.PortRecord
}

// New builds a snapshot from records keyed by interface name and derives the
// split groups. Later duplicates of a name replace earlier ones.
func New(records []types.PortRecord) Registry {
	ports := make(map[string]types.PortRecord, len(records))
	for _, r := range records {
		if r.InterfaceName == "" {
			continue
		}
		ports[r.InterfaceName] = r.Clone()
	}
	deriveSplitGroups(ports)
	return Registry{ports: ports}
}

// deriveSplitGroups sets SplitCount on every member of a split group to the
// group size. Ports without a split index carry no split metadata.
func deriveSplitGroups(ports map[string]types.PortRecord) {
	counts := make(map[string]int)
	for _, p := range ports {
		if p.IsSplit() {
			counts[p.FrontPanel]++
		}
	}
	for name, p := range ports {
		if p.IsSplit() {
			p.SplitCount = counts[p.FrontPanel]
		} else {
			p.SplitCount = 0
		}
		ports[name] = p
	}
}

// Len is the number of ports in the snapshot.
func (r Registry) Len() int {
	return len(r.ports)
}

// Get returns the port with the given interface name.
func (r Registry) Get(name string) (types.PortRecord, bool) {
	p, ok := r.ports[name]
	if !ok {
		return types.PortRecord{}, false
	}
	return p.Clone(), true
}

// Names returns every interface name, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.ports))
	for name := range r.ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Ports returns every record ordered by interface name.
func (r Registry) Ports() []types.PortRecord {
	names := r.Names()
	ports := make([]types.PortRecord, 0, len(names))
	for _, name := range names {
		ports = append(ports, r.ports[name].Clone())
	}
	return ports
}

// Find resolves a pattern to ports. "all" returns every port. An exact
// interface name, switch port name or MAC address match, checked in that
// order, returns that single port. Otherwise every port on the given
// front-panel number is returned, which yields a whole split group. No match
// is an empty result.
func (r Registry) Find(pattern string) []types.PortRecord {
	if pattern == All {
		return r.Ports()
	}
	if p, ok := r.ports[pattern]; ok {
		return []types.PortRecord{p.Clone()}
	}
	ports := r.Ports()
	for _, p := range ports {
		if p.SwitchPortName != "" && p.SwitchPortName == pattern {
			return []types.PortRecord{p}
		}
	}
	mac := normalizeMAC(pattern)
	for _, p := range ports {
		if p.MACAddress != "" && p.MACAddress == mac {
			return []types.PortRecord{p}
		}
	}
	return r.FrontPanel(pattern)
}

// FrontPanel returns the ports on one front-panel number, split members
// ordered by split index.
func (r Registry) FrontPanel(number string) []types.PortRecord {
	var ports []types.PortRecord
	if number == "" {
		return ports
	}
	for _, p := range r.Ports() {
		if p.FrontPanel == number {
			ports = append(ports, p)
		}
	}
	sort.SliceStable(ports, func(i, j int) bool {
		a, b := ports[i], ports[j]
		if a.IsSplit() && b.IsSplit() && *a.SplitIndex != *b.SplitIndex {
			return *a.SplitIndex < *b.SplitIndex
		}
		return a.InterfaceName < b.InterfaceName
	})
	return ports
}

// SplitGroups maps each front-panel number carrying split metadata to the
// group's cardinality.
func (r Registry) SplitGroups() map[string]int {
	groups := make(map[string]int)
	for _, p := range r.ports {
		if p.IsSplit() {
			groups[p.FrontPanel] = p.SplitCount
		}
	}
	return groups
}

// SplitFrontPanels lists the split front-panel numbers in numeric order.
func (r Registry) SplitFrontPanels() []string {
	groups := r.SplitGroups()
	numbers := make([]string, 0, len(groups))
	for n := range groups {
		numbers = append(numbers, n)
	}
	SortFrontPanels(numbers)
	return numbers
}

// WithoutSplit returns a copy of the snapshot in which every member of the
// given front-panel number has lost its split metadata. It reflects an
// unsplit that has been issued but not yet observed.
func (r Registry) WithoutSplit(number string) Registry {
	ports := make(map[string]types.PortRecord, len(r.ports))
	for name, p := range r.ports {
		p = p.Clone()
		if p.FrontPanel == number {
			p.ClearSplit()
		}
		ports[name] = p
	}
	deriveSplitGroups(ports)
	return Registry{ports: ports}
}

// SortFrontPanels orders front-panel numbers numerically, non-numeric values last.
func SortFrontPanels(numbers []string) {
	sort.SliceStable(numbers, func(i, j int) bool {
		a, errA := strconv.Atoi(numbers[i])
		b, errB := strconv.Atoi(numbers[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return numbers[i] < numbers[j]
	})
}
