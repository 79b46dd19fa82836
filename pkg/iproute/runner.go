// Package iproute drives the ip and devlink command line tools.
package iproute

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"switchport/pkg"
)

// Default tool names, resolved through PATH.
const (
	DefaultIPPath      = "ip"
	DefaultDevlinkPath = "devlink"
)

// Runner is every external call the port manager makes. Listing calls return
// raw tool output; the rest only report failure.
type Runner interface {
	LinkList() (string, error)
	PortList() (string, error)

	PortSplit(handle string, count int) error
	PortUnsplit(handle string) error

	LinkSetName(name, newName string) error
	LinkSetUp(name string) error
	LinkSetDown(name string) error
	AddrFlush(name string) error
	AddrAdd(name, cidr string) error
	// ConfigDelete drops routes and neighbours bound to the interface.
	ConfigDelete(name string) error
	// ConfigCreate re-arms IPv6 link-local address generation.
	ConfigCreate(name string) error
}

// execCommand is a variable so tests can substitute the process launcher.
var execCommand = exec.Command

// Exec runs the real tools.
type Exec struct {
	IPPath      string
	DevlinkPath string
	// DryRun logs side-effecting commands instead of running them.
	DryRun bool
}

// NewExec returns a runner using the given tool paths, falling back to the
// defaults for empty values.
func NewExec(ipPath, devlinkPath string, dryRun bool) *Exec {
	if ipPath == "" {
		ipPath = DefaultIPPath
	}
	if devlinkPath == "" {
		devlinkPath = DefaultDevlinkPath
	}
	return &Exec{IPPath: ipPath, DevlinkPath: devlinkPath, DryRun: dryRun}
}

// output runs a read-only command and returns its stdout.
func (e *Exec) output(tool string, args ...string) (string, error) {
	pkg.WithField("cmd", commandLine(tool, args)).Debug("running")
	out, err := execCommand(tool, args...).Output()
	if err != nil {
		return "", errors.Wrapf(err, "%s failed", commandLine(tool, args))
	}
	return string(out), nil
}

// run executes a side-effecting command, honouring dry-run.
func (e *Exec) run(tool string, args ...string) error {
	line := commandLine(tool, args)
	if e.DryRun {
		pkg.WithField("cmd", line).Info("dry-run")
		return nil
	}
	pkg.WithField("cmd", line).Debug("running")
	out, err := execCommand(tool, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return errors.Wrapf(err, "%s failed", line)
		}
		return errors.Wrapf(err, "%s failed: %s", line, msg)
	}
	if pkg.IsDebugEnabled() && len(out) > 0 {
		pkg.WithFields(log.Fields{"cmd": line, "output": strings.TrimSpace(string(out))}).Debug("command output")
	}
	return nil
}

func (e *Exec) LinkList() (string, error) {
	return e.output(e.IPPath, "-d", "link", "show")
}

func (e *Exec) PortList() (string, error) {
	return e.output(e.DevlinkPath, "port", "show")
}

func (e *Exec) PortSplit(handle string, count int) error {
	return e.run(e.DevlinkPath, "port", "split", handle, "count", strconv.Itoa(count))
}

func (e *Exec) PortUnsplit(handle string) error {
	return e.run(e.DevlinkPath, "port", "unsplit", handle)
}

func (e *Exec) LinkSetName(name, newName string) error {
	return e.run(e.IPPath, "link", "set", "dev", name, "name", newName)
}

func (e *Exec) LinkSetUp(name string) error {
	return e.run(e.IPPath, "link", "set", "dev", name, "up")
}

func (e *Exec) LinkSetDown(name string) error {
	return e.run(e.IPPath, "link", "set", "dev", name, "down")
}

func (e *Exec) AddrFlush(name string) error {
	return e.run(e.IPPath, "addr", "flush", "dev", name)
}

func (e *Exec) AddrAdd(name, cidr string) error {
	return e.run(e.IPPath, "addr", "add", cidr, "dev", name)
}

func (e *Exec) ConfigDelete(name string) error {
	routeErr := e.run(e.IPPath, "route", "flush", "dev", name)
	neighErr := e.run(e.IPPath, "neigh", "flush", "dev", name)
	if routeErr != nil {
		return routeErr
	}
	return neighErr
}

func (e *Exec) ConfigCreate(name string) error {
	return e.run(e.IPPath, "link", "set", "dev", name, "addrgenmode", "eui64")
}

func commandLine(tool string, args []string) string {
	return fmt.Sprintf("%s %s", tool, strings.Join(args, " "))
}
