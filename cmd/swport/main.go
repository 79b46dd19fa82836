package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"switchport/internal/config"
	"switchport/pkg"
	"switchport/pkg/iproute"
	"switchport/pkg/manager"
)

var (
	// Global flags
	configPath  string
	logLevel    string
	dryRun      bool
	settleDelay time.Duration
	ipPath      string
	devlinkPath string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "swport",
	Short: "swport - switch port topology manager",
	Long: `swport discovers the front-panel port layout of a switch ASIC and renames,
splits, unsplits and resets its ports through ip and devlink.

Examples:
  swport show                         # List all ports
  swport show 3                       # Every port on front panel 3
  swport rename --type prefix         # eth5 -> swp5 from switch port name p5
  swport rename --type port-number --map 1=uplink
  swport split 1=4 2=2 --rename       # Break out ports and rename the new ones
  swport unsplit all --rename
  swport reset all --skip eth0`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", config.DefaultPath, "Path to configuration file")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.BoolVar(&dryRun, "dry-run", false, "Log side-effecting commands instead of running them")
	flags.DurationVar(&settleDelay, "settle-delay", manager.DefaultSettleDelay, "Wait after split/unsplit before re-reading ports")
	flags.StringVar(&ipPath, "ip", iproute.DefaultIPPath, "Path to the ip tool")
	flags.StringVar(&devlinkPath, "devlink", iproute.DefaultDevlinkPath, "Path to the devlink tool")
}

// loadSettings reads the configuration file and applies flag overrides.
func loadSettings(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	var err error
	switch {
	case flags.Changed("config"):
		cfg, err = config.LoadConfig(configPath)
	case fileExists(configPath):
		cfg, err = config.LoadConfig(configPath)
	default:
		cfg = config.Default()
	}
	if err != nil {
		return err
	}

	applyGlobalFlags(flags, cfg)

	if err := pkg.SetLogLevelFromString(cfg.LogLevel); err != nil {
		return err
	}
	pkg.WithField("config", configPath).Debug("settings loaded")
	return nil
}

// applyGlobalFlags lets explicitly set flags win over the file.
func applyGlobalFlags(flags *pflag.FlagSet, c *config.Config) {
	if flags.Changed("log-level") || c.LogLevel == "" {
		c.LogLevel = logLevel
	}
	if flags.Changed("dry-run") {
		c.DryRun = dryRun
	}
	if flags.Changed("settle-delay") {
		c.SettleDelay = settleDelay.String()
	}
	if flags.Changed("ip") || c.IPPath == "" {
		c.IPPath = ipPath
	}
	if flags.Changed("devlink") || c.DevlinkPath == "" {
		c.DevlinkPath = devlinkPath
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// newManager builds the port manager from the loaded settings.
func newManager() (*manager.Manager, error) {
	delay, err := cfg.SettleDuration()
	if err != nil {
		return nil, err
	}
	runner := iproute.NewExec(cfg.IPPath, cfg.DevlinkPath, cfg.DryRun)
	return manager.New(runner, manager.DelaySettler{Delay: delay}), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
