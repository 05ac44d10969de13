package proto

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// EncodeVector serializes a weight vector as a hex-encoded CBOR array.
// CBOR keeps float64 values at full width, so round trips are exact.
func EncodeVector(v []float64) (string, error) {
	if v == nil {
		v = []float64{}
	}

	data, err := cbor.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: encoding vector: %s", ErrProtocol, err)
	}

	return hex.EncodeToString(data), nil
}

// DecodeVector reverses EncodeVector.
func DecodeVector(blob string) ([]float64, error) {
	data, err := hex.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding vector hex: %s", ErrProtocol, err)
	}

	var v []float64
	if err := cbor.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: decoding vector blob: %s", ErrProtocol, err)
	}
	if v == nil {
		v = []float64{}
	}

	return v, nil
}
