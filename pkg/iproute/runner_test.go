package iproute

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExec records every launched command line and re-executes the test
// binary as TestHelperProcess, which prints stdout or fails on request.
type fakeExec struct {
	calls  []string
	stdout string
	fail   bool
}

func (f *fakeExec) install(t *testing.T) {
	t.Helper()
	old := execCommand
	execCommand = func(name string, args ...string) *exec.Cmd {
		f.calls = append(f.calls, commandLine(name, args))
		cmd := exec.Command(os.Args[0], "-test.run=TestHelperProcess", "--")
		cmd.Env = append(os.Environ(),
			"SWPORT_HELPER_PROCESS=1",
			"SWPORT_HELPER_STDOUT="+f.stdout,
			fmt.Sprintf("SWPORT_HELPER_FAIL=%t", f.fail),
		)
		return cmd
	}
	t.Cleanup(func() { execCommand = old })
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("SWPORT_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Fprint(os.Stdout, os.Getenv("SWPORT_HELPER_STDOUT"))
	if os.Getenv("SWPORT_HELPER_FAIL") == "true" {
		fmt.Fprint(os.Stderr, "RTNETLINK answers: Operation not permitted")
		os.Exit(2)
	}
	os.Exit(0)
}

func TestNewExecDefaults(t *testing.T) {
	e := NewExec("", "", false)
	assert.Equal(t, DefaultIPPath, e.IPPath)
	assert.Equal(t, DefaultDevlinkPath, e.DevlinkPath)

	e = NewExec("/sbin/ip", "/sbin/devlink", true)
	assert.Equal(t, "/sbin/ip", e.IPPath)
	assert.True(t, e.DryRun)
}

func TestExecCommandLines(t *testing.T) {
	fake := &fakeExec{}
	fake.install(t)
	e := NewExec("ip", "devlink", false)

	require.NoError(t, e.PortSplit("pci/0000:01:00.0/1", 4))
	require.NoError(t, e.PortUnsplit("pci/0000:01:00.0/61"))
	require.NoError(t, e.LinkSetName("eth1", "swp1"))
	require.NoError(t, e.LinkSetUp("swp1"))
	require.NoError(t, e.LinkSetDown("swp1"))
	require.NoError(t, e.AddrFlush("lo"))
	require.NoError(t, e.AddrAdd("lo", "::1/128"))
	require.NoError(t, e.ConfigDelete("swp1"))
	require.NoError(t, e.ConfigCreate("swp1"))

	assert.Equal(t, []string{
		"devlink port split pci/0000:01:00.0/1 count 4",
		"devlink port unsplit pci/0000:01:00.0/61",
		"ip link set dev eth1 name swp1",
		"ip link set dev swp1 up",
		"ip link set dev swp1 down",
		"ip addr flush dev lo",
		"ip addr add ::1/128 dev lo",
		"ip route flush dev swp1",
		"ip neigh flush dev swp1",
		"ip link set dev swp1 addrgenmode eui64",
	}, fake.calls)
}

func TestExecListings(t *testing.T) {
	fake := &fakeExec{stdout: "1: lo: <LOOPBACK>"}
	fake.install(t)
	e := NewExec("ip", "devlink", false)

	out, err := e.LinkList()
	require.NoError(t, err)
	assert.Equal(t, "1: lo: <LOOPBACK>", out)

	_, err = e.PortList()
	require.NoError(t, err)
	assert.Equal(t, []string{"ip -d link show", "devlink port show"}, fake.calls)
}

func TestExecFailureCarriesToolOutput(t *testing.T) {
	fake := &fakeExec{fail: true}
	fake.install(t)
	e := NewExec("ip", "devlink", false)

	err := e.LinkSetName("eth1", "swp1")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "ip link set dev eth1 name swp1 failed"))
	assert.Contains(t, err.Error(), "Operation not permitted")

	_, err = e.LinkList()
	require.Error(t, err)
}

func TestDryRunSkipsSideEffects(t *testing.T) {
	fake := &fakeExec{stdout: "pci/0000:01:00.0/1: type eth netdev eth1"}
	fake.install(t)
	e := NewExec("ip", "devlink", true)

	require.NoError(t, e.PortSplit("pci/0000:01:00.0/1", 2))
	require.NoError(t, e.LinkSetDown("eth1"))
	assert.Empty(t, fake.calls)

	out, err := e.PortList()
	require.NoError(t, err)
	assert.Contains(t, out, "netdev eth1")
	assert.Equal(t, []string{"devlink port show"}, fake.calls)
}
