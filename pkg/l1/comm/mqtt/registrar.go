package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/servo.go/pkg/framework"
	"github.com/robotalks/servo.go/pkg/l1"
	"github.com/robotalks/servo.go/pkg/l1/comm"
)

// ClientIDPrefix prefixes the MQTT client ID of a Registrar when the
// broker URL doesn't carry one.
const ClientIDPrefix = "servo:"

// MetaTopic is the retained topic announcing a controller.
func MetaTopic(ref l1.ControllerRef) string {
	return ref.Name() + "/meta"
}

// Registrar implements l1.Registrar using MQTT.
type Registrar struct {
	Queue *Queue
	Info  l1.ControllerInfo

	metaJSON  string
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.ControllerInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+MetaTopic(info.Ref), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID(ClientIDPrefix + info.Ref.Name())
	}
	r := &Registrar{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		metaJSON: string(meta),
	}
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForController(info.Ref))
	return r, nil
}

// Name implements Named.
func (r *Registrar) Name() string {
	return "mqtt " + r.Info.Ref.Name()
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	r.Queue.Connect()
	<-ctx.Done()
	r.Queue.PubWith(MetaTopic(r.Info.Ref), nil, 1, true).WaitTimeout(time.Second)
	r.Queue.Close()
	return nil
}

func (r *Registrar) onConnected() {
	glog.Infof("mqtt: announce %s", r.Info.Ref.Name())
	r.Queue.PubWith(MetaTopic(r.Info.Ref), []byte(r.metaJSON), 1, true)
}
