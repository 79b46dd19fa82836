package manager

import (
	"switchport/pkg"
	"switchport/pkg/registry"
)

// LoopbackAddrs are re-added to the loopback interface after a flush.
var LoopbackAddrs = []string{"127.0.0.1/8", "::1/128"}

// ResetOptions control the reset.
type ResetOptions struct {
	// Skip names interfaces left untouched. Nil means none.
	Skip []string
	// Shutdown leaves the ports down afterwards.
	Shutdown bool
}

// Reset clears the address and interface configuration of the selected
// ports. Every step is best-effort: a failed step is logged and the rest of
// the port, and the remaining ports, are still processed. It returns the
// interface names that were processed.
func (m *Manager) Reset(reg registry.Registry, ports []string, opts ResetOptions) []string {
	skip := make(map[string]bool, len(opts.Skip))
	for _, s := range opts.Skip {
		skip[s] = true
	}

	var done []string
	for _, name := range resolveSelection(reg, ports) {
		if skip[name] {
			continue
		}
		port, _ := reg.Get(name)
		entry := pkg.WithPort(name)

		if err := m.runner.AddrFlush(name); err != nil {
			entry.WithError(err).Debug("address flush failed")
		}
		if port.IsLoopback() {
			for _, addr := range LoopbackAddrs {
				if err := m.runner.AddrAdd(name, addr); err != nil {
					entry.WithField("addr", addr).WithError(err).Warn("failed to restore loopback address")
				}
			}
		} else if err := m.runner.LinkSetDown(name); err != nil {
			entry.WithError(err).Warn("failed to bring port down")
		}

		if err := m.runner.ConfigDelete(name); err != nil {
			entry.WithError(err).Warn("failed to delete interface configuration")
		}
		if err := m.runner.ConfigCreate(name); err != nil {
			entry.WithError(err).Warn("failed to recreate interface configuration")
		}

		if !opts.Shutdown {
			if err := m.runner.LinkSetUp(name); err != nil {
				entry.WithError(err).Warn("failed to bring port up")
			}
		}
		entry.Info("reset")
		done = append(done, name)
	}
	return done
}

// resolveSelection expands "all" to every interface and any other pattern
// through Find, keeping the first occurrence of each name.
func resolveSelection(reg registry.Registry, patterns []string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, pattern := range patterns {
		found := reg.Find(pattern)
		if len(found) == 0 {
			pkg.WithPort(pattern).Warn("unknown port")
			continue
		}
		for _, p := range found {
			if !seen[p.InterfaceName] {
				seen[p.InterfaceName] = true
				names = append(names, p.InterfaceName)
			}
		}
	}
	return names
}
