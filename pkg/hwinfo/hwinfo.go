// Package hwinfo reads driver details of network interfaces through the
// ethtool ioctl interface. It is used for informational output only; the
// port registry never depends on it.
package hwinfo

import (
	"github.com/safchain/ethtool"

	"switchport/pkg"
)

// Info is what ethtool reports about one interface.
type Info struct {
	Driver  string `json:"driver,omitempty"`
	BusInfo string `json:"bus_info,omitempty"`
	LinkUp  *bool  `json:"link_up,omitempty"`
}

// Source answers driver queries for an interface name.
type Source interface {
	DriverName(intf string) (string, error)
	BusInfo(intf string) (string, error)
	LinkState(intf string) (uint32, error)
	Close()
}

// newSource is a variable so tests can avoid the ioctl socket.
var newSource = func() (Source, error) {
	e, err := ethtool.NewEthtool()
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Reader looks up driver details, sharing one ethtool handle.
type Reader struct {
	src Source
}

// NewReader opens an ethtool handle. Callers must Close the reader.
func NewReader() (*Reader, error) {
	src, err := newSource()
	if err != nil {
		return nil, err
	}
	return &Reader{src: src}, nil
}

// Lookup returns whatever details are available; missing fields are left
// empty and logged at debug level.
func (r *Reader) Lookup(intf string) Info {
	var info Info
	entry := pkg.WithPort(intf)

	if driver, err := r.src.DriverName(intf); err != nil {
		entry.WithError(err).Debug("failed to get driver name")
	} else {
		info.Driver = driver
	}

	if bus, err := r.src.BusInfo(intf); err != nil {
		entry.WithError(err).Debug("failed to get bus info")
	} else {
		info.BusInfo = bus
	}

	if state, err := r.src.LinkState(intf); err != nil {
		entry.WithError(err).Debug("failed to get link state")
	} else {
		up := state == 1
		info.LinkUp = &up
	}

	return info
}

// LookupAll returns details for each named interface.
func (r *Reader) LookupAll(names []string) map[string]Info {
	infos := make(map[string]Info, len(names))
	for _, name := range names {
		infos[name] = r.Lookup(name)
	}
	return infos
}

// Close releases the ethtool handle.
func (r *Reader) Close() {
	r.src.Close()
}
