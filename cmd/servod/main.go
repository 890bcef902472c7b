package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/servo.go/pkg/framework"
	"github.com/robotalks/servo.go/pkg/l1"
	env "github.com/robotalks/servo.go/pkg/l1/env/controller"
	"github.com/robotalks/servo.go/pkg/servo"
)

func init() {
	env.SetControllerType(servo.ControllerType, l1.ControllerMeta{Description: "ANDI-SERVO motion controller"})
	env.SetupFlags()
	servo.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	envConf := env.NewConfig()
	conf := servo.NewConfig()
	envConf.Info.Meta.Labels = map[string]string{"backend": conf.Backend}
	env := envConf.MustNewEnv()

	board, err := conf.OpenBoard()
	if err != nil {
		glog.Exit(err)
	}
	ctl := conf.NewController(board, env.Registrar)
	loop := fx.NewLoop().Add(env, ctl)
	glog.Infof("servod: %s registered at %v", envConf.Info.Ref.Name(), env.RegistryURLs)

	err = fx.NewRunner().
		HandleSignals().
		OnShutdownClose("board", board).
		Go(fx.NamedRun("loop", loop)).
		Wait()
	if err != nil {
		glog.Exit(err)
	}
}
