package proto_test

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/absmach/federator/pkg/proto"
)

func TestRoundTripAllKinds(t *testing.T) {
	blob, err := proto.EncodeVector([]float64{0.5, -1.25, 3e-9})
	require.NoError(t, err)

	tests := []struct {
		name string
		msg  proto.Message
	}{
		{
			name: "register",
			msg: proto.Message{
				Type:         proto.KindRegister,
				ClientID:     "clinic-a",
				SampleCount:  300,
				FeatureCount: 10,
			},
		},
		{
			name: "registered",
			msg: proto.Message{
				Type:     proto.KindRegistered,
				ClientID: "clinic-a",
				Round:    4,
			},
		},
		{
			name: "start_training",
			msg: proto.Message{
				Type:  proto.KindStartTraining,
				Round: 7,
			},
		},
		{
			name: "weights",
			msg: proto.Message{
				Type:        proto.KindWeights,
				ClientID:    "clinic-a",
				Weights:     blob,
				SampleCount: 300,
				Accuracy:    0.8125,
				Round:       7,
			},
		},
		{
			name: "global_weights",
			msg: proto.Message{
				Type:    proto.KindGlobalWeights,
				Weights: blob,
				Round:   8,
			},
		},
		{
			name: "ping",
			msg:  proto.Message{Type: proto.KindPing},
		},
		{
			name: "pong",
			msg:  proto.Message{Type: proto.KindPong},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, proto.Encode(&buf, tc.msg))

			got, err := proto.Decode(&buf)
			require.NoError(t, err)
			assert.Equal(t, tc.msg, got)
		})
	}
}

func TestVectorRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		vector []float64
	}{
		{name: "empty", vector: []float64{}},
		{name: "single", vector: []float64{math.Pi}},
		{name: "negatives and extremes", vector: []float64{-1, math.MaxFloat64, math.SmallestNonzeroFloat64, 0}},
		{name: "large", vector: ramp(1500)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			blob, err := proto.EncodeVector(tc.vector)
			require.NoError(t, err)

			got, err := proto.DecodeVector(blob)
			require.NoError(t, err)
			require.Len(t, got, len(tc.vector))
			for i := range tc.vector {
				assert.Equal(t, tc.vector[i], got[i])
			}
		})
	}
}

func TestDecodeCleanClose(t *testing.T) {
	_, err := proto.Decode(bytes.NewReader(nil))
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecodeShortPrefix(t *testing.T) {
	_, err := proto.Decode(bytes.NewReader([]byte{0x00, 0x00}))
	assert.ErrorIs(t, err, proto.ErrFraming)
}

func TestDecodeTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, proto.Encode(&buf, proto.Message{Type: proto.KindPing}))

	truncated := buf.Bytes()[:buf.Len()-2]
	_, err := proto.Decode(bytes.NewReader(truncated))
	assert.ErrorIs(t, err, proto.ErrFraming)
}

func TestDecodeOversizedFrame(t *testing.T) {
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], proto.MaxFrameSize+1)

	_, err := proto.Decode(bytes.NewReader(prefix[:]))
	assert.ErrorIs(t, err, proto.ErrFraming)
}

func TestDecodeMalformedPayload(t *testing.T) {
	payload := []byte("{not json")
	var buf bytes.Buffer
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	buf.Write(prefix[:])
	buf.Write(payload)

	_, err := proto.Decode(&buf)
	assert.ErrorIs(t, err, proto.ErrProtocol)
}

func TestDecodeUnknownKind(t *testing.T) {
	payload := []byte(`{"type":"gossip","round":0}`)
	var buf bytes.Buffer
	var prefix [4]byte
	binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
	buf.Write(prefix[:])
	buf.Write(payload)

	_, err := proto.Decode(&buf)
	assert.ErrorIs(t, err, proto.ErrProtocol)
}

func TestEncodeInvalidMessage(t *testing.T) {
	var buf bytes.Buffer
	err := proto.Encode(&buf, proto.Message{Type: proto.KindWeights, ClientID: "clinic-a"})
	assert.ErrorIs(t, err, proto.ErrProtocol)
	assert.Zero(t, buf.Len())
}

func TestDecodeVectorBadBlob(t *testing.T) {
	_, err := proto.DecodeVector("zz")
	assert.ErrorIs(t, err, proto.ErrProtocol)

	_, err = proto.DecodeVector("ff")
	assert.ErrorIs(t, err, proto.ErrProtocol)
}

func ramp(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = float64(i) * 0.125
	}

	return v
}
