package lm629

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatFilter(t *testing.T) {
	require.Equal(t,
		"LM629 PID Filter\n"+
			"\tDterm : 2\n"+
			"\tKp    : 2\n"+
			"\tKi    : 0\n"+
			"\tKd    : 50\n"+
			"\tIl    : 0\n",
		FormatFilter(bootFilter))
}

func TestFormatTrajectory(t *testing.T) {
	out := FormatTrajectory(bootTraj)
	require.True(t, strings.HasPrefix(out, "LM629 Trajectory\n\tforward_dir   : False\n"))
	require.Contains(t, out, "\tstop_smooth   : True\n")
	require.Contains(t, out, "\tvelocity_mode : False\n")
	require.Contains(t, out, "\tacc           : 160000\n")
	require.Contains(t, out, "\tposition      : 0\n")
}

func TestFormatStatus(t *testing.T) {
	out := FormatStatus(Status(StatusMotorOff | StatusTrajectoryComplete))
	require.Contains(t, out, "\tBusy                : False\n")
	require.Contains(t, out, "\tTrajectory Complete : True\n")
	require.Contains(t, out, "\tMotor Off           : True\n")
	require.Equal(t, 9, strings.Count(out, "\n"))
}

func TestFormatSignals(t *testing.T) {
	testCases := []struct {
		name    string
		signals Signals
		on      []string
		off     []string
	}{
		{
			name:    "filter loaded only",
			signals: Signals(SignalFilterLoaded),
			on:      []string{"Filter Loaded"},
			off:     []string{"Motor Off", "Host Interrupt", "Eight Bit Mode", "On Target"},
		},
		{
			name:    "motor off only",
			signals: Signals(StatusMotorOff),
			on:      []string{"Motor Off"},
			off:     []string{"Filter Loaded", "Velocity Mode", "Forward Direction", "Turn off on pos.err."},
		},
		{
			name:    "host interrupt and index",
			signals: Signals(SignalHostInterrupt | SignalAcquireNextIndex),
			on:      []string{"Host Interrupt", "Acquire Next Index"},
			off:     []string{"Acceleration Loaded", "Motor Off"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := FormatSignals(tc.signals)
			lines := make(map[string]string)
			for _, line := range strings.Split(strings.TrimSpace(out), "\n")[1:] {
				parts := strings.SplitN(line, ":", 2)
				require.Len(t, parts, 2)
				lines[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
			}
			require.Len(t, lines, 16)
			for _, label := range tc.on {
				require.Equal(t, "True", lines[label], label)
			}
			for _, label := range tc.off {
				require.Equal(t, "False", lines[label], label)
			}
		})
	}
}

func TestRawLayout(t *testing.T) {
	raw, err := bootFilter.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, raw, RawFilterSize)
	require.Equal(t, uint32(50), binary.LittleEndian.Uint32(raw[12:]))
	var f Filter
	require.NoError(t, f.UnmarshalBinary(raw))
	require.Equal(t, bootFilter, f)

	raw, err = bootTraj.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, raw, RawTrajectorySize)
	// stop_smooth is the third word, load_acc the sixth, acc follows the flags.
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(raw[8:]))
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(raw[20:]))
	require.Equal(t, uint32(160000), binary.LittleEndian.Uint32(raw[44:]))

	raw[0] = 0xff
	var traj Trajectory
	require.NoError(t, traj.UnmarshalBinary(raw))
	require.True(t, traj.ForwardDir)
	require.Equal(t, bootTraj.Velocity, traj.Velocity)

	err = traj.UnmarshalBinary(raw[:10])
	require.True(t, errors.Is(err, ErrInvalidParameter))
}
