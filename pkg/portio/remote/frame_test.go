package remote

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeq(t *testing.T) {
	for s := byte(0xff); s >= byte(0xf0); s-- {
		require.False(t, Seq(s).IsValid())
		require.Equal(t, Seq(1), Seq(s).Next())
	}
	for s := byte(1); s < byte(0xf0); s++ {
		require.True(t, Seq(s).IsValid())
		if s+1 < 0xf0 {
			require.Equal(t, Seq(s+1), Seq(s).Next())
		} else {
			require.Equal(t, Seq(1), Seq(s).Next())
		}
	}
	require.False(t, Seq(0).IsValid())
	require.True(t, NewSeq().IsValid())
}

func TestFrameBytes(t *testing.T) {
	testCases := []struct {
		name   string
		frame  Frame
		expect []byte
	}{
		{"no data", Frame{Seq: 1, Code: OpDelay}, []byte{1, 0x06}},
		{"in", Frame{Seq: 2, Code: OpIn, Data: []byte{0x03, 0x06}}, []byte{2, 0x22, 0x03, 0x06}},
		{"out", Frame{Seq: 3, Code: OpOut, Data: []byte{0x03, 0x04, 0x01}}, []byte{3, 0x34, 0x03, 0x04, 0x01}},
		{"long", Frame{Seq: 4, Code: OpIn, Data: []byte{1, 2, 3, 4, 5, 6, 7}}, []byte{4, 0x72, 7, 1, 2, 3, 4, 5, 6, 7}},
		{"code masked", Frame{Seq: 5, Code: 0xf5}, []byte{5, 0x05}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.frame.Bytes())
		})
	}
}

type feedStep struct {
	in     []byte
	expect Decoded
}

func TestDecoder(t *testing.T) {
	testCases := []struct {
		name  string
		steps []feedStep
	}{
		{
			name: "sync on request",
			steps: []feedStep{
				{in: []byte{syncREQ, 5}, expect: Decoded{Reply: syncACK, Ready: true}},
				{in: []byte{5, 0x12, 9}, expect: Decoded{Ready: true, Frame: &Frame{Seq: 5, Code: 2, Data: []byte{9}}}},
				{in: []byte{6, 0x04}, expect: Decoded{Ready: true, Frame: &Frame{Seq: 6, Code: 4}}},
			},
		},
		{
			name: "sync on ack",
			steps: []feedStep{
				{in: []byte{0x33, syncACK, 0xef}, expect: Decoded{Ready: true}},
				{in: []byte{0xef, 0x73, 8, 1, 2, 3, 4, 5, 6, 7, 8}, expect: Decoded{Ready: true, Frame: &Frame{Seq: 0xef, Code: 3, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}}}},
				{in: []byte{1, 0x70, 0}, expect: Decoded{Ready: true, Frame: &Frame{Seq: 1, Code: 0}}},
			},
		},
		{
			name: "invalid sync seq",
			steps: []feedStep{
				{in: []byte{syncREQ, 0xf3}, expect: Decoded{Reply: syncREQ}},
				{in: []byte{syncACK, 0}, expect: Decoded{Reply: syncREQ}},
			},
		},
		{
			name: "out of sequence",
			steps: []feedStep{
				{in: []byte{syncACK, 1}, expect: Decoded{Ready: true}},
				{in: []byte{2}, expect: Decoded{Reply: syncREQ}},
				{in: []byte{1, 0x02}, expect: Decoded{}},
			},
		},
		{
			name: "bad length",
			steps: []feedStep{
				{in: []byte{syncACK, 1, 1, 0x72}, expect: Decoded{Ready: true}},
				{in: []byte{0x80}, expect: Decoded{Reply: syncREQ}},
			},
		},
		{
			name: "resync while ready",
			steps: []feedStep{
				{in: []byte{syncACK, 1, 1, 0x02}, expect: Decoded{Ready: true, Frame: &Frame{Seq: 1, Code: 2}}},
				{in: []byte{syncREQ, 7}, expect: Decoded{Reply: syncACK, Ready: true}},
				{in: []byte{7, 0x02}, expect: Decoded{Ready: true, Frame: &Frame{Seq: 7, Code: 2}}},
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var d Decoder
			for n, step := range tc.steps {
				var r Decoded
				for _, b := range step.in {
					r = d.Feed(b)
				}
				require.Equalf(t, step.expect, r, "step %d", n)
			}
		})
	}
}
