package andi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/servo.go/pkg/lm629"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 0x300, cfg.BaseAddress)
	require.Len(t, cfg.Channels, Channels)
	require.Equal(t, DefaultResetPulse, cfg.ResetPulse())
	require.Equal(t, DefaultResetSettle, cfg.ResetSettle())
}

func TestParseConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Parse([]byte(`
base_address: 0x280
reset_attempts: 5
channels:
  - filter:
      dterm: 4
      kp: 10
      kd: 200
    trajectory:
      velocity_mode: true
      forward_dir: true
      load_vel: true
      velocity: 1000
`)))
	require.NoError(t, cfg.Validate())
	require.Equal(t, 0x280, cfg.BaseAddress)
	require.Equal(t, 5, cfg.ResetAttempts)
	require.Equal(t, int(DefaultResetPulse.Milliseconds()), cfg.ResetPulseMs)
	require.Len(t, cfg.Channels, Channels)
	require.Equal(t, lm629.Filter{DTerm: 4, Kp: 10, Kd: 200}, cfg.Channels[0].Filter)
	require.Equal(t, lm629.Trajectory{
		VelocityMode: true,
		ForwardDir:   true,
		LoadVel:      true,
		Velocity:     1000,
	}, cfg.Channels[0].Trajectory)
	require.Equal(t, DefaultChannelConfig, cfg.Channels[1])
}

func TestValidateConfig(t *testing.T) {
	testCases := []struct {
		name string
		data string
	}{
		{"base out of range", "base_address: 0xfffc"},
		{"no reset attempts", "reset_attempts: 0"},
		{"negative pulse", "reset_pulse_ms: -1"},
		{"bad dterm", "channels:\n  - filter: {dterm: 0}\n"},
		{"too many channels", "channels: [{filter: {dterm: 1}}, {filter: {dterm: 1}}, {filter: {dterm: 1}}]"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			require.NoError(t, cfg.Parse([]byte(tc.data)))
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)

	dir, err := os.MkdirTemp("", "andi")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fn := filepath.Join(dir, "board.yaml")
	require.NoError(t, os.WriteFile(fn, []byte("reset_settle_ms: 50\n"), 0644))
	cfg, err = LoadConfig(fn)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.ResetSettleMs)

	require.NoError(t, os.WriteFile(fn, []byte("channels: {"), 0644))
	_, err = LoadConfig(fn)
	require.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
