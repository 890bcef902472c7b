package andi

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/robotalks/servo.go/pkg/lm629"
)

// Config describes the board and the parameters loaded at bring-up.
type Config struct {
	BaseAddress   int             `yaml:"base_address"`
	ResetAttempts int             `yaml:"reset_attempts"`
	ResetPulseMs  int             `yaml:"reset_pulse_ms"`
	ResetSettleMs int             `yaml:"reset_settle_ms"`
	Channels      []ChannelConfig `yaml:"channels"`
}

// ChannelConfig holds the bring-up parameters of one channel.
type ChannelConfig struct {
	Filter     lm629.Filter     `yaml:"filter"`
	Trajectory lm629.Trajectory `yaml:"trajectory"`
}

// Defaults of the board as shipped.
const (
	DefaultBaseAddress   = 0x300
	DefaultResetAttempts = 3
	DefaultResetPulse    = 200 * time.Millisecond
	DefaultResetSettle   = 200 * time.Millisecond
)

// DefaultChannelConfig is a stiff position loop parked at zero.
var DefaultChannelConfig = ChannelConfig{
	Filter: lm629.Filter{DTerm: 2, Kp: 2, Kd: 50},
	Trajectory: lm629.Trajectory{
		StopSmooth: true,
		LoadAcc:    true,
		LoadVel:    true,
		LoadPos:    true,
		Acc:        160000,
		Velocity:   200000,
		Position:   0,
	},
}

// DefaultConfig returns the configuration of a stock board.
func DefaultConfig() *Config {
	return &Config{
		BaseAddress:   DefaultBaseAddress,
		ResetAttempts: DefaultResetAttempts,
		ResetPulseMs:  int(DefaultResetPulse / time.Millisecond),
		ResetSettleMs: int(DefaultResetSettle / time.Millisecond),
		Channels:      []ChannelConfig{DefaultChannelConfig, DefaultChannelConfig},
	}
}

// LoadConfig reads a YAML file over the defaults. An empty filename
// returns the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("read board config: %w", err)
		}
		if err := cfg.Parse(data); err != nil {
			return nil, fmt.Errorf("board config %s: %w", filename, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse merges YAML data into the config. Channels given in data replace
// the defaults one by one.
func (c *Config) Parse(data []byte) error {
	defaults := c.Channels
	c.Channels = nil
	if err := yaml.Unmarshal(data, c); err != nil {
		c.Channels = defaults
		return err
	}
	if len(c.Channels) == 0 {
		c.Channels = defaults
	}
	for n := len(c.Channels); n < len(defaults); n++ {
		c.Channels = append(c.Channels, defaults[n])
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BaseAddress < 0 || c.BaseAddress+PortCount > 0x10000 {
		return fmt.Errorf("invalid base address 0x%x", c.BaseAddress)
	}
	if c.ResetAttempts < 1 {
		return fmt.Errorf("reset_attempts must be at least 1")
	}
	if c.ResetPulseMs < 0 || c.ResetSettleMs < 0 {
		return fmt.Errorf("negative reset timing")
	}
	if len(c.Channels) != Channels {
		return fmt.Errorf("%d channels configured, board has %d", len(c.Channels), Channels)
	}
	for n, ch := range c.Channels {
		if err := ch.Filter.Validate(); err != nil {
			return fmt.Errorf("channel %d filter: %w", n, err)
		}
	}
	return nil
}

// ResetPulse returns the reset pulse width.
func (c *Config) ResetPulse() time.Duration {
	return time.Duration(c.ResetPulseMs) * time.Millisecond
}

// ResetSettle returns the delay after releasing reset.
func (c *Config) ResetSettle() time.Duration {
	return time.Duration(c.ResetSettleMs) * time.Millisecond
}
