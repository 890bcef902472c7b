package servo

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/servo.go/pkg/cli/sh"
	fx "github.com/robotalks/servo.go/pkg/framework"
	"github.com/robotalks/servo.go/pkg/lm629"
	"github.com/robotalks/servo.go/pkg/servo/msgs"
)

func parseChannel(c *ishell.Context) (uint32, bool) {
	if len(c.Args) < 1 {
		c.Err(fmt.Errorf("CHANNEL required"))
		return 0, false
	}
	n, err := strconv.ParseUint(c.Args[0], 10, 32)
	if err != nil {
		c.Err(fmt.Errorf("Invalid CHANNEL: %v", err))
		return 0, false
	}
	return uint32(n), true
}

func parseInt32(c *ishell.Context, name, arg string) (int32, bool) {
	val, err := strconv.ParseInt(arg, 0, 32)
	if err != nil {
		c.Err(fmt.Errorf("Invalid %s: %v", name, err))
		return 0, false
	}
	return int32(val), true
}

func parseUint32(c *ishell.Context, name, arg string) (uint32, bool) {
	val, err := strconv.ParseUint(arg, 0, 32)
	if err != nil {
		c.Err(fmt.Errorf("Invalid %s: %v", name, err))
		return 0, false
	}
	return uint32(val), true
}

func parseOnOff(c *ishell.Context, arg string) (bool, bool) {
	switch arg {
	case "on", "1", "true":
		return true, true
	case "off", "0", "false":
		return false, true
	}
	c.Err(fmt.Errorf("on or off expected"))
	return false, false
}

// hasFlag reports whether the trailing arguments contain flag.
func hasFlag(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}

// channelCmd builds a command taking only a channel.
func channelCmd(name, alias, help string, create func(ch uint32) fx.Message) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: []string{alias},
		Help:    help,
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			sh.DoCommand(c, create(ch))
		}),
	}
}

var (
	// StatusCmd exposes ServoStatusQuery command.
	StatusCmd = ishell.Cmd{
		Name:    "servo.status",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.ServoStatusQuery{})
		}),
	}

	// ReportCmd exposes ServoReportQuery command.
	ReportCmd = ishell.Cmd{
		Name:    "servo.report",
		Aliases: []string{"rep"},
		Help:    "[all]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			reply, err := sh.Do(c, &msgs.ServoReportQuery{Channels: hasFlag(c.Args, "all")})
			if err != nil {
				c.Err(err)
				return
			}
			if report, ok := reply.(*msgs.ServoReport); ok && !sh.ShellFrom(c).OutputJSON {
				c.Print(report.Text)
				return
			}
			sh.PrintMsg(c, reply)
		}),
	}

	// InitCmd exposes ServoInit command.
	InitCmd = ishell.Cmd{
		Name:    "servo.init",
		Aliases: []string{"init"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.ServoInit{})
		}),
	}

	// ResetCmd exposes ServoSoftReset and ServoHardReset commands.
	ResetCmd = ishell.Cmd{
		Name:    "servo.reset",
		Aliases: []string{"rst"},
		Help:    "CHANNEL [hard]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			if hasFlag(c.Args[1:], "hard") {
				sh.DoCommand(c, &msgs.ServoHardReset{Channel: ch})
				return
			}
			sh.DoCommand(c, &msgs.ServoSoftReset{Channel: ch})
		}),
	}

	// FilterCmd exposes ServoSetFilter command.
	FilterCmd = ishell.Cmd{
		Name:    "servo.filter",
		Aliases: []string{"fil"},
		Help:    "CHANNEL DTERM KP KI KD IL [commit]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			if len(c.Args) < 6 {
				c.Err(fmt.Errorf("DTERM KP KI KD IL required"))
				return
			}
			f := &msgs.ServoFilter{}
			for n, term := range []struct {
				name string
				val  *int32
			}{
				{"DTERM", &f.DTerm},
				{"KP", &f.Kp},
				{"KI", &f.Ki},
				{"KD", &f.Kd},
				{"IL", &f.Il},
			} {
				if *term.val, ok = parseInt32(c, term.name, c.Args[n+1]); !ok {
					return
				}
			}
			sh.DoCommand(c, &msgs.ServoSetFilter{
				Channel: ch,
				Filter:  f,
				Commit:  hasFlag(c.Args[6:], "commit"),
			})
		}),
	}

	// UpdateFilterCmd exposes ServoUpdateFilter command.
	UpdateFilterCmd = channelCmd("servo.update", "udf", "CHANNEL", func(ch uint32) fx.Message {
		return &msgs.ServoUpdateFilter{Channel: ch}
	})

	// MoveCmd exposes ServoSetTrajectory in position mode.
	MoveCmd = ishell.Cmd{
		Name:    "servo.move",
		Aliases: []string{"mv"},
		Help:    "CHANNEL POSITION [VELOCITY [ACCEL]] [rel] [nostart]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("POSITION required"))
				return
			}
			t := &msgs.ServoTrajectory{LoadPos: true}
			if t.Position, ok = parseInt32(c, "POSITION", c.Args[1]); !ok {
				return
			}
			opts := c.Args[2:]
			if len(opts) > 0 {
				if val, err := strconv.ParseInt(opts[0], 0, 32); err == nil {
					t.LoadVel, t.Velocity, opts = true, int32(val), opts[1:]
				}
			}
			if t.LoadVel && len(opts) > 0 {
				if val, err := strconv.ParseInt(opts[0], 0, 32); err == nil {
					t.LoadAcc, t.Acc, opts = true, int32(val), opts[1:]
				}
			}
			t.PosRelative = hasFlag(opts, "rel")
			sh.DoCommand(c, &msgs.ServoSetTrajectory{
				Channel:    ch,
				Trajectory: t,
				Start:      !hasFlag(opts, "nostart"),
			})
		}),
	}

	// VelocityCmd exposes ServoSetTrajectory in velocity mode.
	VelocityCmd = ishell.Cmd{
		Name:    "servo.velocity",
		Aliases: []string{"vel"},
		Help:    "CHANNEL VELOCITY [ACCEL], negative VELOCITY runs backwards",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("VELOCITY required"))
				return
			}
			t := &msgs.ServoTrajectory{VelocityMode: true, ForwardDir: true, LoadVel: true}
			if t.Velocity, ok = parseInt32(c, "VELOCITY", c.Args[1]); !ok {
				return
			}
			if t.Velocity < 0 {
				t.ForwardDir, t.Velocity = false, -t.Velocity
			}
			if len(c.Args) > 2 {
				if t.Acc, ok = parseInt32(c, "ACCEL", c.Args[2]); !ok {
					return
				}
				t.LoadAcc = true
			}
			sh.DoCommand(c, &msgs.ServoSetTrajectory{Channel: ch, Trajectory: t, Start: true})
		}),
	}

	// StartCmd exposes ServoStartTrajectory command.
	StartCmd = channelCmd("servo.start", "stt", "CHANNEL", func(ch uint32) fx.Message {
		return &msgs.ServoStartTrajectory{Channel: ch}
	})

	// StopCmd exposes ServoStop command.
	StopCmd = ishell.Cmd{
		Name:    "servo.stop",
		Aliases: []string{"stop"},
		Help:    "CHANNEL [smooth|abrupt|off]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			msg := &msgs.ServoStop{Channel: ch, Mode: msgs.StopSmooth}
			if len(c.Args) > 1 {
				switch c.Args[1] {
				case "smooth":
				case "abrupt":
					msg.Mode = msgs.StopAbrupt
				case "off":
					msg.Mode = msgs.StopMotorOff
				default:
					c.Err(fmt.Errorf("Invalid MODE: %s", c.Args[1]))
					return
				}
			}
			sh.DoCommand(c, msg)
		}),
	}

	// HomeCmd exposes ServoDefineHome command.
	HomeCmd = channelCmd("servo.home", "dfh", "CHANNEL", func(ch uint32) fx.Message {
		return &msgs.ServoDefineHome{Channel: ch}
	})

	// IndexCmd exposes ServoAcquireIndex command.
	IndexCmd = channelCmd("servo.index", "sip", "CHANNEL", func(ch uint32) fx.Message {
		return &msgs.ServoAcquireIndex{Channel: ch}
	})

	// BreakpointCmd exposes ServoSetBreakpoint command.
	BreakpointCmd = ishell.Cmd{
		Name:    "servo.breakpoint",
		Aliases: []string{"bp"},
		Help:    "CHANNEL POSITION [rel]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("POSITION required"))
				return
			}
			msg := &msgs.ServoSetBreakpoint{Channel: ch, Relative: hasFlag(c.Args[2:], "rel")}
			if msg.Position, ok = parseInt32(c, "POSITION", c.Args[1]); !ok {
				return
			}
			sh.DoCommand(c, msg)
		}),
	}

	// ThresholdCmd exposes ServoSetPositionErrorThreshold command.
	ThresholdCmd = ishell.Cmd{
		Name:    "servo.threshold",
		Aliases: []string{"pe"},
		Help:    "CHANNEL THRESHOLD [stop]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("THRESHOLD required"))
				return
			}
			msg := &msgs.ServoSetPositionErrorThreshold{Channel: ch, StopOnError: hasFlag(c.Args[2:], "stop")}
			if msg.Threshold, ok = parseUint32(c, "THRESHOLD", c.Args[1]); !ok {
				return
			}
			sh.DoCommand(c, msg)
		}),
	}

	// MaskCmd exposes ServoSetIRQMask command.
	MaskCmd = ishell.Cmd{
		Name:    "servo.mask",
		Aliases: []string{"mski"},
		Help:    fmt.Sprintf("CHANNEL MASK (all: %#x)", lm629.IRQAll),
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			if len(c.Args) < 2 {
				c.Err(fmt.Errorf("MASK required"))
				return
			}
			msg := &msgs.ServoSetIRQMask{Channel: ch}
			if msg.Mask, ok = parseUint32(c, "MASK", c.Args[1]); !ok {
				return
			}
			sh.DoCommand(c, msg)
		}),
	}

	// ClearCmd exposes ServoResetInterrupts command.
	ClearCmd = ishell.Cmd{
		Name:    "servo.clear",
		Aliases: []string{"rsti"},
		Help:    "CHANNEL [KEEP]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			msg := &msgs.ServoResetInterrupts{Channel: ch}
			if len(c.Args) > 1 {
				if msg.Keep, ok = parseUint32(c, "KEEP", c.Args[1]); !ok {
					return
				}
			}
			sh.DoCommand(c, msg)
		}),
	}

	// LEDCmd switches the fault LED.
	LEDCmd = ishell.Cmd{
		Name:    "servo.led",
		Aliases: []string{"led"},
		Help:    "on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			setBoard(c, c.Args, msgs.BoardLED)
		}),
	}

	// IRQEnableCmd switches the board interrupt line.
	IRQEnableCmd = ishell.Cmd{
		Name:    "servo.irq",
		Aliases: []string{"irq"},
		Help:    "on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			setBoard(c, c.Args, msgs.BoardIRQEnable)
		}),
	}

	// BrakeCmd switches the brake of a channel.
	BrakeCmd = ishell.Cmd{
		Name:    "servo.brake",
		Aliases: []string{"brk"},
		Help:    "CHANNEL on|off",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			setBoard(c, c.Args[1:], msgs.BoardBrake(int(ch)))
		}),
	}

	// CauseCmd exposes ServoIRQQuery command.
	CauseCmd = ishell.Cmd{
		Name:    "servo.cause",
		Aliases: []string{"cause"},
		Help:    "[clear]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.ServoIRQQuery{Clear: hasFlag(c.Args, "clear")})
		}),
	}

	// ReadbackCmd exposes ServoReadbackQuery command.
	ReadbackCmd = channelCmd("servo.readback", "rd", "CHANNEL", func(ch uint32) fx.Message {
		return &msgs.ServoReadbackQuery{Channel: ch}
	})

	// RawCmd exposes ServoRawWrite command.
	RawCmd = ishell.Cmd{
		Name:    "servo.raw",
		Aliases: []string{"raw"},
		Help:    "CHANNEL filter|trajectory HEX",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			ch, ok := parseChannel(c)
			if !ok {
				return
			}
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("KIND and HEX required"))
				return
			}
			msg := &msgs.ServoRawWrite{Channel: ch}
			switch c.Args[1] {
			case "filter":
				msg.Kind = msgs.RawFilter
			case "trajectory":
				msg.Kind = msgs.RawTrajectory
			default:
				c.Err(fmt.Errorf("Invalid KIND: %s", c.Args[1]))
				return
			}
			data, err := hex.DecodeString(c.Args[2])
			if err != nil {
				c.Err(fmt.Errorf("Invalid HEX: %v", err))
				return
			}
			msg.Data = data
			sh.DoCommand(c, msg)
		}),
	}
)

func setBoard(c *ishell.Context, args []string, bit uint32) {
	if len(args) < 1 {
		c.Err(fmt.Errorf("on or off expected"))
		return
	}
	on, ok := parseOnOff(c, args[0])
	if !ok {
		return
	}
	msg := &msgs.ServoSetBoard{Select: bit}
	if on {
		msg.Value = bit
	}
	sh.DoCommand(c, msg)
}

func init() {
	sh.AddCmds(
		&StatusCmd,
		&ReportCmd,
		&InitCmd,
		&ResetCmd,
		&FilterCmd,
		&UpdateFilterCmd,
		&MoveCmd,
		&VelocityCmd,
		&StartCmd,
		&StopCmd,
		&HomeCmd,
		&IndexCmd,
		&BreakpointCmd,
		&ThresholdCmd,
		&MaskCmd,
		&ClearCmd,
		&LEDCmd,
		&IRQEnableCmd,
		&BrakeCmd,
		&CauseCmd,
		&ReadbackCmd,
		&RawCmd,
	)
}
