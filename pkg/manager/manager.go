// Package manager sequences the side-effecting port operations: rename,
// split, unsplit and reset. Every operation takes a registry snapshot and
// reports per-port failures through the logger without aborting the batch.
package manager

import (
	"time"

	"github.com/pkg/errors"

	"switchport/pkg"
	"switchport/pkg/iproute"
	"switchport/pkg/registry"
)

// DefaultSettleDelay is how long split and unsplit are given to expose or
// remove sub-interfaces before the registry is read again.
const DefaultSettleDelay = 5 * time.Second

// Collector produces registry snapshots.
type Collector interface {
	Collect() (registry.Registry, error)
}

// Settler blocks until asynchronous hardware changes can be expected to be
// visible. Implementations must not be conditional on observed state; the
// caller always re-collects afterwards.
type Settler interface {
	Settle()
}

// sleep is a variable so tests do not wait.
var sleep = time.Sleep

// DelaySettler waits a fixed delay.
type DelaySettler struct {
	Delay time.Duration
}

func (d DelaySettler) Settle() {
	if d.Delay <= 0 {
		return
	}
	pkg.Debug("waiting %s for ports to settle", d.Delay)
	sleep(d.Delay)
}

// Manager runs port operations against one switch.
type Manager struct {
	runner    iproute.Runner
	collector Collector
	settler   Settler
}

// New creates a manager whose registry is collected through the same runner.
func New(runner iproute.Runner, settler Settler) *Manager {
	if settler == nil {
		settler = DelaySettler{Delay: DefaultSettleDelay}
	}
	return &Manager{
		runner:    runner,
		collector: registry.NewCollector(runner),
		settler:   settler,
	}
}

// Collect returns a fresh registry snapshot.
func (m *Manager) Collect() (registry.Registry, error) {
	return m.collector.Collect()
}

// settleAndCollect waits for the hardware and then reads the registry again.
func (m *Manager) settleAndCollect() (registry.Registry, error) {
	m.settler.Settle()
	reg, err := m.collector.Collect()
	if err != nil {
		return registry.Registry{}, errors.Wrap(err, "failed to re-read ports after settling")
	}
	return reg, nil
}
