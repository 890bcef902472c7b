package lm629

import (
	"bytes"
	"fmt"
)

type flagLine struct {
	label string
	on    bool
}

func trueFalse(on bool) string {
	if on {
		return "True"
	}
	return "False"
}

func writeFlags(w *bytes.Buffer, width int, lines []flagLine) {
	for _, l := range lines {
		fmt.Fprintf(w, "\t%-*s: %s\n", width, l.label, trueFalse(l.on))
	}
}

// FormatFilter renders a filter for reporting.
func FormatFilter(f Filter) string {
	var w bytes.Buffer
	w.WriteString("LM629 PID Filter\n")
	fmt.Fprintf(&w, "\tDterm : %d\n", f.DTerm)
	fmt.Fprintf(&w, "\tKp    : %d\n", f.Kp)
	fmt.Fprintf(&w, "\tKi    : %d\n", f.Ki)
	fmt.Fprintf(&w, "\tKd    : %d\n", f.Kd)
	fmt.Fprintf(&w, "\tIl    : %d\n", f.Il)
	return w.String()
}

// FormatTrajectory renders a trajectory for reporting.
func FormatTrajectory(t Trajectory) string {
	var w bytes.Buffer
	w.WriteString("LM629 Trajectory\n")
	writeFlags(&w, 14, []flagLine{
		{"forward_dir", t.ForwardDir},
		{"velocity_mode", t.VelocityMode},
		{"stop_smooth", t.StopSmooth},
		{"stop_abrupt", t.StopAbrupt},
		{"motor_off", t.MotorOff},
		{"load_acc", t.LoadAcc},
		{"load_vel", t.LoadVel},
		{"load_pos", t.LoadPos},
		{"acc_relative", t.AccRelative},
		{"vel_relative", t.VelRelative},
		{"pos_relative", t.PosRelative},
	})
	fmt.Fprintf(&w, "\t%-14s: %d\n", "acc", t.Acc)
	fmt.Fprintf(&w, "\t%-14s: %d\n", "velocity", t.Velocity)
	fmt.Fprintf(&w, "\t%-14s: %d\n", "position", t.Position)
	return w.String()
}

func statusLines(s Status) []flagLine {
	return []flagLine{
		{"Busy", s.Busy()},
		{"Command Error", s.CommandError()},
		{"Trajectory Complete", s.TrajectoryComplete()},
		{"Index Pulse", s.IndexPulse()},
		{"Wraparound", s.WrapAround()},
		{"Position Error", s.PositionError()},
		{"Breakpoint reached", s.Breakpoint()},
		{"Motor Off", s.MotorOff()},
	}
}

// FormatStatus renders a status byte for reporting.
func FormatStatus(s Status) string {
	var w bytes.Buffer
	w.WriteString("LM629 Status\n")
	writeFlags(&w, 20, statusLines(s))
	return w.String()
}

// FormatSignals renders a signals register for reporting.
func FormatSignals(s Signals) string {
	var w bytes.Buffer
	w.WriteString("LM629 Signals\n")
	lines := statusLines(Status(byte(s)))
	lines[0] = flagLine{"Acquire Next Index", s.AcquireNextIndex()}
	lines = append(lines,
		flagLine{"Eight Bit Mode", s.EightBitMode()},
		flagLine{"Turn off on pos.err.", s.TurnOffOnError()},
		flagLine{"On Target", s.OnTarget()},
		flagLine{"Velocity Mode", s.VelocityMode()},
		flagLine{"Forward Direction", s.ForwardDir()},
		flagLine{"Filter Loaded", s.FilterLoaded()},
		flagLine{"Acceleration Loaded", s.AccelerationLoaded()},
		flagLine{"Host Interrupt", s.HostInterrupt()},
	)
	writeFlags(&w, 20, lines)
	return w.String()
}
