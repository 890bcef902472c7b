package msgs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/servo.go/pkg/framework"
	l1msgs "github.com/robotalks/servo.go/pkg/l1/msgs"
	"github.com/robotalks/servo.go/pkg/lm629"
	"github.com/robotalks/servo.go/pkg/servo/msgs"
)

func TestTypedRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		msg  fx.Message
	}{
		{"set trajectory", &msgs.ServoSetTrajectory{
			Channel: 1,
			Trajectory: &msgs.ServoTrajectory{
				LoadVel:     true,
				LoadPos:     true,
				PosRelative: true,
				Velocity:    65536 * 4,
				Position:    -2000,
			},
			Start: true,
		}},
		{"set filter", &msgs.ServoSetFilter{Filter: &msgs.ServoFilter{DTerm: 1, Kp: 30, Kd: 200}, Commit: true}},
		{"raw write", &msgs.ServoRawWrite{Channel: 1, Kind: msgs.RawFilter, Data: []byte{0, 1, 2}}},
		{"status", &msgs.ServoStatus{
			Board:  "operational",
			LED:    true,
			Brakes: 2,
			Channels: []*msgs.ServoChannelStatus{
				{Channel: 0, Status: 0x84, Position: 1000, FilterState: "active"},
				{Channel: 1, Position: -5, PositionError: true},
			},
		}},
		{"readback", &msgs.ServoReadback{Channel: 1, RealPosition: -7, RealVelocity: -3}},
		{"report", &msgs.ServoReport{Text: "ANDI-SERVO\n"}},
		{"command error", l1msgs.NewCommandErrFromMsg("nothing loaded")},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typed, err := l1msgs.TypedFrom(tc.msg)
			require.NoError(t, err)
			typed.Sequence = 42
			pkt, err := typed.Encode()
			require.NoError(t, err)

			decoded, err := l1msgs.DecodeTyped(pkt)
			require.NoError(t, err)
			require.Equal(t, typed.TypeId, decoded.TypeId)
			require.Equal(t, uint32(42), decoded.Sequence)
			msg, err := decoded.Decode()
			require.NoError(t, err)
			require.Equal(t, tc.msg, msg)
		})
	}
}

func TestTypeKinds(t *testing.T) {
	testCases := []struct {
		msg     l1msgs.SerializableMessage
		command bool
		reply   bool
	}{
		{&msgs.ServoStatus{}, false, false},
		{&msgs.ServoStatusQuery{}, true, false},
		{&msgs.ServoStatusReply{}, true, true},
		{&msgs.ServoStop{}, true, false},
		{&msgs.ServoIRQ{}, true, true},
		{&msgs.ServoReport{}, true, true},
		{&msgs.ServoReadback{}, true, true},
		{l1msgs.NewCommandOK(), true, true},
	}
	for _, tc := range testCases {
		typed := l1msgs.Typed{TypeId: tc.msg.TypeID()}
		require.Equal(t, tc.command, typed.IsCommand(), "%T", tc.msg)
		require.Equal(t, !tc.command, typed.IsEvent(), "%T", tc.msg)
		require.Equal(t, tc.reply, typed.IsReply(), "%T", tc.msg)
	}
}

func TestUnknownType(t *testing.T) {
	typed := l1msgs.Typed{TypeId: msgs.GroupServo | 0x7fff}
	_, err := typed.Decode()
	require.Error(t, err)
	require.IsType(t, &l1msgs.ErrUnknownType{}, err)

	_, err = l1msgs.TypedFrom(&otherMessage{})
	require.Equal(t, l1msgs.ErrNotSerializable, err)
}

type otherMessage struct{}

func (m *otherMessage) NewMessage() fx.Message { return &otherMessage{} }

func TestConversions(t *testing.T) {
	f := lm629.Filter{DTerm: 2, Kp: 0xffff, Ki: 1, Kd: 300, Il: 40}
	require.Equal(t, f, msgs.FilterFrom(f).Filter())

	traj := lm629.Trajectory{
		ForwardDir:   true,
		VelocityMode: true,
		LoadAcc:      true,
		AccRelative:  true,
		LoadVel:      true,
		Acc:          100,
		Velocity:     65536,
	}
	require.Equal(t, traj, msgs.TrajectoryFrom(traj).Trajectory())

	var nilFilter *msgs.ServoFilter
	require.Equal(t, lm629.Filter{}, nilFilter.Filter())
	var nilTraj *msgs.ServoTrajectory
	require.Equal(t, lm629.Trajectory{}, nilTraj.Trajectory())

	require.Equal(t, msgs.BoardBrake1, msgs.BoardBrake(1))
}
