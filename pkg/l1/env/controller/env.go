package controller

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/servo.go/pkg/framework"
	"github.com/robotalks/servo.go/pkg/l1"
	"github.com/robotalks/servo.go/pkg/l1/comm"
	"github.com/robotalks/servo.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/servo.go/pkg/l1/comm/stream"
	"github.com/robotalks/servo.go/pkg/l1/comm/websocket"
	"github.com/robotalks/servo.go/pkg/l1/env"
)

// Config provides common options to setup an env for L1 controllers.
type Config struct {
	Info l1.ControllerInfo

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// WebSocketAddr is the listen address for direct WebSocket links.
	WebSocketAddr string
	// StreamAddr is the listen address for direct TCP links.
	StreamAddr string
}

var defaultConfig = Config{
	MQTTBrokerURL: "mqtt://localhost:1883/servo/",
}

func init() {
	if val := os.Getenv("SERVO_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	defaultConfig.WebSocketAddr = os.Getenv("SERVO_WS_LISTEN")
	defaultConfig.StreamAddr = os.Getenv("SERVO_TCP_LISTEN")
	defaultConfig.Info.Ref.ID = env.MachineID()
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Controller type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Controller ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, empty to disable")
	flag.StringVar(&defaultConfig.WebSocketAddr, "ws-listen", defaultConfig.WebSocketAddr, "Listen address for WebSocket links")
	flag.StringVar(&defaultConfig.StreamAddr, "tcp-listen", defaultConfig.StreamAddr, "Listen address for TCP links")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// SetControllerType should be called in init with basic info about the controller.
func SetControllerType(typ string, meta l1.ControllerMeta) {
	defaultConfig.Info.Ref.Type = typ
	defaultConfig.Info.Meta = meta
}

// Env is the env for L1 controllers.
type Env struct {
	Config       *Config
	RegistryURLs []string
	Registrar    *comm.RegistrarMux
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("controller type and id must be specified")
	}
	env := &Env{
		Config:    c,
		Registrar: &comm.RegistrarMux{},
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %w", err)
		}
		env.Registrar.Add(reg)
		env.RegistryURLs = append(env.RegistryURLs, c.MQTTBrokerURL)
	}
	if c.WebSocketAddr != "" {
		env.Registrar.Add(websocket.NewServer(c.WebSocketAddr, c.Info))
		env.RegistryURLs = append(env.RegistryURLs, "ws://"+c.WebSocketAddr)
	}
	if c.StreamAddr != "" {
		env.Registrar.Add(stream.NewServer(c.StreamAddr))
		env.RegistryURLs = append(env.RegistryURLs, "tcp://"+c.StreamAddr)
	}
	if len(env.Registrar.Registrars) == 0 {
		return nil, fmt.Errorf("at least one registrar is required")
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		glog.Exit(err)
	}
	return env
}

// AddToLoop adds controllers/runners to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Registrar)
	loop.Add(&comm.UnsupportedCommands{})
}
