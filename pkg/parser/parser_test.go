package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switchport/pkg/types"
)

const linkListing = `1: lo: <LOOPBACK,UP,LOWER_UP> mtu 65536 qdisc noqueue state UNKNOWN mode DEFAULT group default qlen 1000
    link/loopback 00:00:00:00:00:00 brd 00:00:00:00:00:00 promiscuity 0 minmtu 0 maxmtu 0 addrgenmode eui64
2: eth0: <BROADCAST,MULTICAST,UP,LOWER_UP> mtu 1500 qdisc mq state UP mode DEFAULT group default qlen 1000
    link/ether 0c:c4:7a:00:00:01 brd ff:ff:ff:ff:ff:ff promiscuity 0 minmtu 68 maxmtu 9000 addrgenmode eui64
3: swp1s0: <BROADCAST,MULTICAST> mtu 1500 qdisc mq state DOWN mode DEFAULT group default qlen 1000
    link/ether 7C:FE:90:00:00:10 brd ff:ff:ff:ff:ff:ff promiscuity 0 minmtu 0 maxmtu 65535 addrgenmode eui64 numtxqueues 1 portname p1s0 switchid 7cfe90f00000
4: tun0: <POINTOPOINT,MULTICAST,NOARP,UP,LOWER_UP> mtu 1500 qdisc fq_codel state UNKNOWN mode DEFAULT group default qlen 500
    link/none  promiscuity 0 minmtu 68 maxmtu 65535
5: vlan10@eth0: <BROADCAST,MULTICAST> mtu 1500 qdisc noop state DOWN mode DEFAULT group default qlen 1000
    link/ether 0c:c4:7a:00:00:01 brd ff:ff:ff:ff:ff:ff promiscuity 0
`

func TestSplitLinkRecords(t *testing.T) {
	records := SplitLinkRecords(linkListing)
	require.Len(t, records, 5)
	assert.Contains(t, records[0], "link/loopback")
	assert.Contains(t, records[2], "portname p1s0")
	assert.Empty(t, SplitLinkRecords(""))
	assert.Empty(t, SplitLinkRecords("    link/ether 00:11:22:33:44:55\n"))
}

func TestParseLinkListing(t *testing.T) {
	records := SplitLinkRecords(linkListing)

	tests := []struct {
		name   string
		record string
		want   types.PortRecord
		ok     bool
	}{
		{
			name:   "loopback",
			record: records[0],
			want: types.PortRecord{
				InterfaceName: "lo",
				LinkType:      types.LinkTypeLoopback,
				MACAddress:    "00:00:00:00:00:00",
			},
			ok: true,
		},
		{
			name:   "plain ethernet without switch annotation",
			record: records[1],
			want: types.PortRecord{
				InterfaceName: "eth0",
				LinkType:      types.LinkTypeEther,
				MACAddress:    "0c:c4:7a:00:00:01",
			},
			ok: true,
		},
		{
			name:   "split switch port",
			record: records[2],
			want: types.PortRecord{
				InterfaceName:  "swp1s0",
				LinkType:       types.LinkTypeEther,
				MACAddress:     "7c:fe:90:00:00:10",
				SwitchPortName: "p1s0",
				SwitchID:       "7cfe90f00000",
				FrontPanel:     "1",
				SplitIndex:     types.IntPtr(0),
			},
			ok: true,
		},
		{
			name:   "non ethernet link type is rejected",
			record: records[3],
			ok:     false,
		},
		{
			name:   "stacked device name drops peer",
			record: records[4],
			want: types.PortRecord{
				InterfaceName: "vlan10",
				LinkType:      types.LinkTypeEther,
				MACAddress:    "0c:c4:7a:00:00:01",
			},
			ok: true,
		},
		{
			name:   "garbage",
			record: "not a link record",
			ok:     false,
		},
		{
			name:   "header only",
			record: "7: eth9: <BROADCAST> mtu 1500",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLinkListing(tt.record)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseLinkListingIsIdempotent(t *testing.T) {
	for _, record := range SplitLinkRecords(linkListing) {
		first, ok1 := ParseLinkListing(record)
		second, ok2 := ParseLinkListing(record)
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, first, second)
	}
}

func TestParseSwitchPortName(t *testing.T) {
	tests := []struct {
		name       string
		frontPanel string
		splitIndex *int
	}{
		{name: "p1", frontPanel: "1"},
		{name: "p32", frontPanel: "32"},
		{name: "p3s0", frontPanel: "3", splitIndex: types.IntPtr(0)},
		{name: "p3s3", frontPanel: "3", splitIndex: types.IntPtr(3)},
		{name: "p03", frontPanel: "3"},
		{name: "pf0vf1"},
		{name: "swp1"},
		{name: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, idx := ParseSwitchPortName(tt.name)
			assert.Equal(t, tt.frontPanel, fp)
			assert.Equal(t, tt.splitIndex, idx)
		})
	}
}

func TestParsePortListing(t *testing.T) {
	tests := []struct {
		name string
		line string
		want PortFragment
		ok   bool
	}{
		{
			name: "physical port",
			line: "pci/0000:01:00.0/1: type eth netdev eth1 flavour physical port 1 splittable true lanes 4",
			want: PortFragment{PCIHandle: "pci/0000:01:00.0/1", InterfaceName: "eth1"},
			ok:   true,
		},
		{
			name: "split sub-port",
			line: "pci/0000:01:00.0/61: type eth netdev swp1s1 flavour physical port 1 split_group 1 splittable false lanes 1",
			want: PortFragment{PCIHandle: "pci/0000:01:00.0/61", InterfaceName: "swp1s1"},
			ok:   true,
		},
		{
			name: "indented line",
			line: "  pci/0000:03:00.0/5: type eth netdev swp5",
			want: PortFragment{PCIHandle: "pci/0000:03:00.0/5", InterfaceName: "swp5"},
			ok:   true,
		},
		{
			name: "port without netdev",
			line: "pci/0000:01:00.0/0: type notset flavour cpu port 0",
		},
		{
			name: "empty",
			line: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePortListing(tt.line)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
