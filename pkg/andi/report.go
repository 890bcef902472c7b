package andi

import (
	"bytes"
	"fmt"

	"github.com/robotalks/servo.go/pkg/lm629"
)

// ReportHeader starts every board report.
const ReportHeader = "ANDI-SERVO motion controller\n\n"

// ChannelSnapshot is the state of a channel read back from the chip.
type ChannelSnapshot struct {
	Status   lm629.Status
	Signals  lm629.Signals
	Position int32
}

// Snapshot reads status, signals and real position of channel n.
func (b *Board) Snapshot(n int) (snap ChannelSnapshot, err error) {
	ch, err := b.Channel(n)
	if err != nil {
		return snap, err
	}
	if snap.Status, err = ch.Status(); err != nil {
		return snap, err
	}
	if snap.Signals, err = ch.Signals(); err != nil {
		return snap, err
	}
	snap.Position, err = ch.RealPosition()
	return snap, err
}

// Report renders the status, signals and encoder counts of both channels.
func (b *Board) Report() (string, error) {
	var snaps [Channels]ChannelSnapshot
	for n := range snaps {
		snap, err := b.Snapshot(n)
		if err != nil {
			return "", err
		}
		snaps[n] = snap
	}
	var w bytes.Buffer
	w.WriteString(ReportHeader)
	for n, snap := range snaps {
		fmt.Fprintf(&w, "Channel %d Status  : %02x\n", n, byte(snap.Status))
		w.WriteString(lm629.FormatStatus(snap.Status))
		w.WriteString("\n")
		fmt.Fprintf(&w, "Channel %d Signals : %04x\n", n, uint16(snap.Signals))
		w.WriteString(lm629.FormatSignals(snap.Signals))
		w.WriteString("\n")
	}
	for n, snap := range snaps {
		fmt.Fprintf(&w, "Channel %d Encoder Count : %08x\n", n, uint32(snap.Position))
	}
	w.WriteString("\n")
	return w.String(), nil
}

// ChannelReport renders the active filter and trajectory of channel n.
func (b *Board) ChannelReport(n int) (string, error) {
	ch, err := b.Channel(n)
	if err != nil {
		return "", err
	}
	var w bytes.Buffer
	fmt.Fprintf(&w, "Channel %d Filter :\n", n)
	w.WriteString(lm629.FormatFilter(ch.ActiveFilter()))
	fmt.Fprintf(&w, "Channel %d Trajectory :\n", n)
	w.WriteString(lm629.FormatTrajectory(ch.ActiveTrajectory()))
	return w.String(), nil
}
