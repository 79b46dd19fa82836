package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when it exists and no other file is given.
const DefaultPath = "/etc/swport/config.yaml"

// Config represents the swport configuration file
type Config struct {
	IPPath      string       `yaml:"ip_path"`
	DevlinkPath string       `yaml:"devlink_path"`
	SettleDelay string       `yaml:"settle_delay"`
	DryRun      bool         `yaml:"dry_run"`
	LogLevel    string       `yaml:"log_level"`
	Rename      RenameConfig `yaml:"rename"`
	Reset       ResetConfig  `yaml:"reset"`
}

// RenameConfig holds naming defaults for rename and for the automatic
// rename after split or unsplit.
type RenameConfig struct {
	Prefix    string            `yaml:"prefix"`
	Delimiter string            `yaml:"delimiter"`
	NumberMap map[string]string `yaml:"number_map"`
	MACMap    map[string]string `yaml:"mac_map"`
}

// ResetConfig holds reset defaults.
type ResetConfig struct {
	Skip []string `yaml:"skip"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		IPPath:      "ip",
		DevlinkPath: "devlink",
		SettleDelay: "5s",
		LogLevel:    "warn",
		Rename: RenameConfig{
			Prefix:    "sw",
			Delimiter: "s",
		},
	}
}

// LoadConfig loads configuration from a YAML file, filling unset values from
// Default and validating the maps.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file %s", path)
	}
	return config, nil
}

// Validate checks the settle delay and normalizes the rename maps.
func (c *Config) Validate() error {
	if _, err := c.SettleDuration(); err != nil {
		return err
	}
	for k := range c.Rename.NumberMap {
		if _, err := strconv.ParseUint(k, 10, 32); err != nil {
			return fmt.Errorf("number_map key %q is not a front-panel number", k)
		}
	}
	if len(c.Rename.MACMap) > 0 {
		macs := make(map[string]string, len(c.Rename.MACMap))
		for k, v := range c.Rename.MACMap {
			mac, err := NormalizeMAC(k)
			if err != nil {
				return fmt.Errorf("mac_map key: %v", err)
			}
			macs[mac] = v
		}
		c.Rename.MACMap = macs
	}
	return nil
}

// SettleDuration parses the settle delay.
func (c *Config) SettleDuration() (time.Duration, error) {
	if c.SettleDelay == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.SettleDelay)
	if err != nil {
		return 0, fmt.Errorf("invalid settle_delay %q: %v", c.SettleDelay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid settle_delay %q: negative", c.SettleDelay)
	}
	return d, nil
}

// ParsePortList parses a front-panel selection like "1-4,7,9". The result
// keeps the given order and drops duplicates.
func ParsePortList(listStr string) ([]string, error) {
	var ports []string
	seen := make(map[int]bool)
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			ports = append(ports, strconv.Itoa(n))
		}
	}

	for _, part := range strings.Split(listStr, ",") {
		part = strings.TrimSpace(part)
		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("invalid range format: %s", part)
			}
			start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
			if err != nil || start < 0 {
				return nil, fmt.Errorf("invalid range start: %s", rangeParts[0])
			}
			end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
			if err != nil || end < start {
				return nil, fmt.Errorf("invalid range end: %s", rangeParts[1])
			}
			for i := start; i <= end; i++ {
				add(i)
			}
		} else {
			port, err := strconv.Atoi(part)
			if err != nil || port < 0 {
				return nil, fmt.Errorf("invalid port number: %q", part)
			}
			add(port)
		}
	}

	return ports, nil
}

// splitPair cuts "key=value" into its halves.
func splitPair(pair string) (string, string, error) {
	k, v, ok := strings.Cut(pair, "=")
	k, v = strings.TrimSpace(k), strings.TrimSpace(v)
	if !ok || k == "" || v == "" {
		return "", "", fmt.Errorf("invalid mapping %q, expected key=value", pair)
	}
	return k, v, nil
}

// ParseNumberMap parses "front-panel=name" pairs.
func ParseNumberMap(pairs []string) (map[string]string, error) {
	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid front-panel number %q in %q", k, pair)
		}
		m[strconv.FormatUint(n, 10)] = v
	}
	return m, nil
}

// ParseMACMap parses "mac=name" pairs. MACs may be colon or hyphen
// delimited and are stored in lower-case colon form.
func ParseMACMap(pairs []string) (map[string]string, error) {
	m := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		mac, err := NormalizeMAC(k)
		if err != nil {
			return nil, err
		}
		m[mac] = v
	}
	return m, nil
}

// NormalizeMAC accepts a colon or hyphen delimited 6-octet MAC address.
func NormalizeMAC(s string) (string, error) {
	if len(s) != 17 || (strings.Count(s, ":") != 5 && strings.Count(s, "-") != 5) {
		return "", fmt.Errorf("invalid MAC address %q", s)
	}
	hw, err := net.ParseMAC(s)
	if err != nil {
		return "", fmt.Errorf("invalid MAC address %q", s)
	}
	return hw.String(), nil
}

// SplitRequest is one parsed "port=count" argument.
type SplitRequest struct {
	Port  string
	Count int
}

// ParseSplitRequests parses "front-panel=count" pairs such as "1=4".
func ParseSplitRequests(pairs []string) ([]SplitRequest, error) {
	var requests []SplitRequest
	for _, pair := range pairs {
		k, v, err := splitPair(pair)
		if err != nil {
			return nil, err
		}
		port, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid front-panel number %q in %q", k, pair)
		}
		count, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid split count %q in %q", v, pair)
		}
		requests = append(requests, SplitRequest{Port: strconv.FormatUint(port, 10), Count: count})
	}
	return requests, nil
}
