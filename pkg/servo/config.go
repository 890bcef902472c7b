package servo

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/servo.go/pkg/andi"
	"github.com/robotalks/servo.go/pkg/l1"
	"github.com/robotalks/servo.go/pkg/portio"
	"github.com/robotalks/servo.go/pkg/portio/devport"
	"github.com/robotalks/servo.go/pkg/portio/remote"
	"github.com/robotalks/servo.go/pkg/sim"
)

// Config defines the configurations for the controller.
type Config struct {
	// Backend selects the port I/O backend:
	//   sim                  simulated board
	//   devport[:PATH]       /dev/port style device, default /dev/port
	//   serial:DEVICE[@BAUD] bridge on a serial line
	//   tcp:HOST:PORT        bridge served over TCP
	Backend string
	// BoardConfig is the YAML board configuration, empty for defaults.
	BoardConfig string
	// BaseAddress overrides the configured base address when non-zero.
	BaseAddress  int
	PollInterval time.Duration
	InitOnStart  bool
	// Trace logs every port access at verbosity 4.
	Trace bool
}

var defaultConfig = Config{
	Backend:      "sim",
	PollInterval: 200 * time.Millisecond,
	InitOnStart:  true,
}

func init() {
	if val := os.Getenv("SERVO_BACKEND"); val != "" {
		defaultConfig.Backend = val
	}
	if val := os.Getenv("SERVO_BOARD_CONFIG"); val != "" {
		defaultConfig.BoardConfig = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Backend, "backend", defaultConfig.Backend, "Port I/O backend: sim, devport[:PATH], serial:DEVICE[@BAUD], tcp:HOST:PORT")
	flag.StringVar(&defaultConfig.BoardConfig, "board-config", defaultConfig.BoardConfig, "Board configuration YAML file")
	flag.IntVar(&defaultConfig.BaseAddress, "base", defaultConfig.BaseAddress, "Board base address, 0 to use the board configuration")
	flag.DurationVar(&defaultConfig.PollInterval, "poll", defaultConfig.PollInterval, "Status poll interval, 0 to disable")
	flag.BoolVar(&defaultConfig.InitOnStart, "init", defaultConfig.InitOnStart, "Bring up the board on start")
	flag.BoolVar(&defaultConfig.Trace, "trace", defaultConfig.Trace, "Log port accesses (with -v=4)")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// LoadBoardConfig loads the board configuration with overrides applied.
func (c *Config) LoadBoardConfig() (*andi.Config, error) {
	conf, err := andi.LoadConfig(c.BoardConfig)
	if err != nil {
		return nil, err
	}
	if c.BaseAddress != 0 {
		conf.BaseAddress = c.BaseAddress
		if err := conf.Validate(); err != nil {
			return nil, err
		}
	}
	return conf, nil
}

// OpenBackend opens the port I/O backend for a board at base.
func (c *Config) OpenBackend(base uint16) (portio.Backend, error) {
	kind, arg := c.Backend, ""
	if pos := strings.Index(kind, ":"); pos >= 0 {
		kind, arg = kind[:pos], kind[pos+1:]
	}
	var bus portio.Backend
	switch kind {
	case "sim":
		bus = sim.NewRealtime(base)
	case "devport":
		if arg == "" {
			arg = devport.DefaultPath
		}
		dev, err := devport.Open(arg)
		if err != nil {
			return nil, err
		}
		bus = dev
	case "serial":
		device, baud := arg, 0
		if pos := strings.LastIndex(arg, "@"); pos >= 0 {
			n, err := strconv.Atoi(arg[pos+1:])
			if err != nil {
				return nil, fmt.Errorf("invalid baud rate in %q", c.Backend)
			}
			device, baud = arg[:pos], n
		}
		if device == "" {
			return nil, fmt.Errorf("serial device required in %q", c.Backend)
		}
		b, err := remote.OpenSerial(device, baud)
		if err != nil {
			return nil, err
		}
		bus = b
	case "tcp":
		if arg == "" {
			return nil, fmt.Errorf("bridge address required in %q", c.Backend)
		}
		b, err := remote.Dial(arg)
		if err != nil {
			return nil, err
		}
		bus = b
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
	glog.Infof("servo: backend %s, base 0x%x", c.Backend, base)
	if c.Trace {
		bus = portio.Trace(bus)
	}
	return bus, nil
}

// OpenBoard loads the board configuration, opens the backend and creates
// the board. The backend is closed with the board.
func (c *Config) OpenBoard() (*andi.Board, error) {
	conf, err := c.LoadBoardConfig()
	if err != nil {
		return nil, err
	}
	bus, err := c.OpenBackend(uint16(conf.BaseAddress))
	if err != nil {
		return nil, err
	}
	board, err := andi.New(bus, conf)
	if err != nil {
		portio.Close(bus)
		return nil, err
	}
	return board, nil
}

// NewController creates a controller using the config.
func (c *Config) NewController(board *andi.Board, events l1.Registrar) *Controller {
	ctl := NewController(board, events)
	ctl.PollInterval = c.PollInterval
	ctl.InitOnStart = c.InitOnStart
	return ctl
}
