package registry

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	links    string
	linksErr error
	ports    string
	portsErr error
}

func (f *fakeLister) LinkList() (string, error) { return f.links, f.linksErr }
func (f *fakeLister) PortList() (string, error) { return f.ports, f.portsErr }

const scenarioLinks = `1: lo: <LOOPBACK,UP,LOWER_UP> mtu 65536 qdisc noqueue state UNKNOWN mode DEFAULT group default qlen 1000
    link/loopback 00:00:00:00:00:00 brd 00:00:00:00:00:00 promiscuity 0
2: eth1: <BROADCAST,MULTICAST> mtu 1500 qdisc mq state DOWN mode DEFAULT group default qlen 1000
    link/ether 11:22:33:44:55:66 brd ff:ff:ff:ff:ff:ff promiscuity 0 portname p1 switchid 00aabbcc
`

const scenarioPorts = `pci/0000:01:00.0/1: type eth netdev eth1 flavour physical port 1 splittable true lanes 4
pci/0000:01:00.0/9: type eth netdev eth9 flavour physical port 9
`

func TestCollectMergesBothListings(t *testing.T) {
	c := NewCollector(&fakeLister{links: scenarioLinks, ports: scenarioPorts})

	reg, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	found := reg.Find("1")
	require.Len(t, found, 1)
	assert.Equal(t, "eth1", found[0].InterfaceName)
	assert.Equal(t, "pci/0000:01:00.0/1", found[0].PCIHandle)
	assert.Equal(t, "00aabbcc", found[0].SwitchID)
	assert.Equal(t, "11:22:33:44:55:66", found[0].MACAddress)
	assert.False(t, found[0].IsSplit())

	lo, ok := reg.Get("lo")
	require.True(t, ok)
	assert.Empty(t, lo.PCIHandle)
	// the devlink entry for eth9 has no link and is dropped
	_, ok = reg.Get("eth9")
	assert.False(t, ok)
}

func TestCollectDerivesSplitGroups(t *testing.T) {
	links := `3: swp1s0: <BROADCAST,MULTICAST> mtu 1500
    link/ether 7c:fe:90:00:00:10 brd ff:ff:ff:ff:ff:ff portname p1s0 switchid 7cfe90
4: swp1s1: <BROADCAST,MULTICAST> mtu 1500
    link/ether 7c:fe:90:00:00:11 brd ff:ff:ff:ff:ff:ff portname p1s1 switchid 7cfe90
5: swp2: <BROADCAST,MULTICAST> mtu 1500
    link/ether 7c:fe:90:00:00:20 brd ff:ff:ff:ff:ff:ff portname p2 switchid 7cfe90
`
	c := NewCollector(&fakeLister{links: links})

	reg, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"1": 2}, reg.SplitGroups())

	p, _ := reg.Get("swp2")
	assert.Zero(t, p.SplitCount)
}

func TestCollectFailsWithoutLinkListing(t *testing.T) {
	tests := []struct {
		name   string
		lister *fakeLister
	}{
		{name: "link listing error", lister: &fakeLister{linksErr: errors.New("exit status 1"), ports: scenarioPorts}},
		{name: "empty link listing", lister: &fakeLister{links: "  \n", ports: scenarioPorts}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCollector(tt.lister).Collect()
			require.Error(t, err)
			assert.Equal(t, ErrNoData, errors.Cause(err))
		})
	}
}

func TestCollectDegradesWithoutPortListing(t *testing.T) {
	c := NewCollector(&fakeLister{links: scenarioLinks, portsErr: errors.New("devlink: command not found")})

	reg, err := c.Collect()
	require.NoError(t, err)
	p, ok := reg.Get("eth1")
	require.True(t, ok)
	assert.Empty(t, p.PCIHandle)
	assert.Equal(t, "p1", p.SwitchPortName)
}

func TestCollectSkipsMalformedRecords(t *testing.T) {
	links := scenarioLinks + "7: tun0: <POINTOPOINT> mtu 1500\n    link/none\n9: broken\n"
	reg, err := NewCollector(&fakeLister{links: links, ports: "garbage line\n" + scenarioPorts}).Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"eth1", "lo"}, reg.Names())
}
