package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"switchport/pkg"
	"switchport/pkg/manager"
	"switchport/pkg/registry"
)

// netClassPath holds one entry per network interface.
const netClassPath = "/sys/class/net"

var (
	// Monitor command flags
	monitorInterval time.Duration
	monitorDebounce time.Duration
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch for port changes",
	Long: `Watch ` + netClassPath + ` and report ports that appear, disappear or are
renamed, for example while a split or unsplit settles. Stops on SIGINT or
SIGTERM.

Examples:
  swport monitor
  swport monitor --interval 10s    # Also re-read ports every 10 seconds`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 30*time.Second, "Periodic re-read interval, 0 to disable")
	monitorCmd.Flags().DurationVar(&monitorDebounce, "debounce", 500*time.Millisecond, "Quiet period after a change before re-reading ports")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	m, err := newManager()
	if err != nil {
		return err
	}

	mon, err := newPortMonitor(m, cmd.OutOrStdout(), monitorDebounce)
	if err != nil {
		return err
	}
	if err := mon.start(netClassPath, monitorInterval); err != nil {
		mon.stop()
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mon.stop()
	return nil
}

// portMonitor re-reads the registry when interfaces come and go.
type portMonitor struct {
	watcher   *fsnotify.Watcher
	collector manager.Collector
	out       io.Writer
	debounce  time.Duration

	refreshMu sync.Mutex
	mu        sync.Mutex
	known     registry.Registry
	timer     *time.Timer
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

func newPortMonitor(c manager.Collector, out io.Writer, debounce time.Duration) (*portMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &portMonitor{
		watcher:   watcher,
		collector: c,
		out:       out,
		debounce:  debounce,
		stopCh:    make(chan struct{}),
	}, nil
}

// start reads the initial registry and begins watching dir.
func (pm *portMonitor) start(dir string, interval time.Duration) error {
	reg, err := pm.collector.Collect()
	if err != nil {
		return fmt.Errorf("failed to read ports: %v", err)
	}
	pm.known = reg
	pkg.WithField("ports", reg.Len()).Info("monitoring port changes")

	if err := pm.watcher.Add(dir); err != nil {
		return err
	}

	pm.wg.Add(1)
	go pm.processEvents(interval)
	return nil
}

func (pm *portMonitor) stop() {
	pkg.Info("stopping port monitor")
	close(pm.stopCh)
	pm.watcher.Close()
	pm.wg.Wait()

	pm.mu.Lock()
	if pm.timer != nil {
		pm.timer.Stop()
	}
	pm.mu.Unlock()
}

func (pm *portMonitor) processEvents(interval time.Duration) {
	defer pm.wg.Done()

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case event, ok := <-pm.watcher.Events:
			if !ok {
				return
			}
			if isPortEvent(event) {
				pkg.WithField("path", event.Name).Debug("interface change detected")
				pm.schedule()
			}
		case err, ok := <-pm.watcher.Errors:
			if !ok {
				return
			}
			pkg.WithError(err).Error("file system monitor error")
		case <-tick:
			pm.refresh()
		case <-pm.stopCh:
			return
		}
	}
}

// isPortEvent reports whether the event adds, removes or renames an
// interface entry.
func isPortEvent(event fsnotify.Event) bool {
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// schedule delays the refresh until the events have stopped for the debounce
// period; a split creates several interfaces in quick succession.
func (pm *portMonitor) schedule() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.timer != nil {
		pm.timer.Stop()
	}
	pm.timer = time.AfterFunc(pm.debounce, pm.refresh)
}

// refresh re-reads the registry and reports the differences.
func (pm *portMonitor) refresh() {
	pm.refreshMu.Lock()
	defer pm.refreshMu.Unlock()

	reg, err := pm.collector.Collect()
	if err != nil {
		pkg.WithError(err).Error("failed to re-read ports")
		return
	}

	pm.mu.Lock()
	changes := diffRegistries(pm.known, reg)
	pm.known = reg
	pm.mu.Unlock()

	for _, c := range changes {
		pkg.WithFields(log.Fields{"port": c.name, "change": c.kind}).Info("port changed")
		fmt.Fprintln(pm.out, c.String())
	}
}

// portChange is one difference between two registry snapshots.
type portChange struct {
	kind string
	name string
	from string
}

func (c portChange) String() string {
	if c.kind == "renamed" {
		return fmt.Sprintf("renamed %s -> %s", c.from, c.name)
	}
	return fmt.Sprintf("%s %s", c.kind, c.name)
}

// diffRegistries lists added, removed and renamed ports. A port is renamed
// when a removed and an added port share a MAC address and switch port name.
func diffRegistries(old, cur registry.Registry) []portChange {
	var removed, added []string
	for _, name := range old.Names() {
		if _, ok := cur.Get(name); !ok {
			removed = append(removed, name)
		}
	}
	for _, name := range cur.Names() {
		if _, ok := old.Get(name); !ok {
			added = append(added, name)
		}
	}

	var changes []portChange
	renamedTo := make(map[string]bool)
	for _, from := range removed {
		before, _ := old.Get(from)
		match := ""
		if before.MACAddress != "" {
			for _, to := range added {
				after, _ := cur.Get(to)
				if !renamedTo[to] && after.MACAddress == before.MACAddress && after.SwitchPortName == before.SwitchPortName {
					match = to
					break
				}
			}
		}
		if match != "" {
			renamedTo[match] = true
			changes = append(changes, portChange{kind: "renamed", name: match, from: from})
			continue
		}
		changes = append(changes, portChange{kind: "removed", name: from})
	}
	for _, to := range added {
		if !renamedTo[to] {
			changes = append(changes, portChange{kind: "added", name: to})
		}
	}

	sort.SliceStable(changes, func(i, j int) bool { return changes[i].name < changes[j].name })
	return changes
}
