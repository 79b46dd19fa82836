package types

// Link types accepted from the link listing.
const (
	LinkTypeEther    = "ether"
	LinkTypeLoopback = "loopback"
)

// LoopbackName is the kernel name of the loopback interface.
const LoopbackName = "lo"

// PortRecord describes one physical or logical switch port.
type PortRecord struct {
	// InterfaceName is the current kernel name and the only mutable key.
	InterfaceName string `json:"interface_name" yaml:"interface_name"`
	LinkType      string `json:"link_type" yaml:"link_type"`
	MACAddress    string `json:"mac_address" yaml:"mac_address"`

	// SwitchPortName is the ASIC port identifier, e.g. "p1" or "p3s0".
	SwitchPortName string `json:"switch_port_name,omitempty" yaml:"switch_port_name,omitempty"`
	SwitchID       string `json:"switch_id,omitempty" yaml:"switch_id,omitempty"`
	// FrontPanel is shared by every member of a split group.
	FrontPanel string `json:"front_panel,omitempty" yaml:"front_panel,omitempty"`
	SplitIndex *int   `json:"split_index,omitempty" yaml:"split_index,omitempty"`
	SplitCount int    `json:"split_count,omitempty" yaml:"split_count,omitempty"`

	// PCIHandle is the devlink port handle. Ports without one cannot be split.
	PCIHandle string `json:"pci_handle,omitempty" yaml:"pci_handle,omitempty"`
}

// IsSplit reports whether the port is a member of a split group.
func (p PortRecord) IsSplit() bool {
	return p.SplitIndex != nil
}

// IsLoopback reports whether the port is the loopback interface.
func (p PortRecord) IsLoopback() bool {
	return p.LinkType == LinkTypeLoopback || p.InterfaceName == LoopbackName
}

// Clone returns a deep copy so snapshots never share the split index pointer.
func (p PortRecord) Clone() PortRecord {
	if p.SplitIndex != nil {
		idx := *p.SplitIndex
		p.SplitIndex = &idx
	}
	return p
}

// ClearSplit drops the split group metadata.
func (p *PortRecord) ClearSplit() {
	p.SplitIndex = nil
	p.SplitCount = 0
}

// IntPtr is a small helper for building records with a split index.
func IntPtr(v int) *int {
	return &v
}
