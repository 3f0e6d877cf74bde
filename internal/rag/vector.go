// Package rag normalizes free-form product and customer names against the
// master dictionaries: embedding retrieval picks candidate entries, the LLM
// picks the canonical spelling.
package rag

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeVector packs an embedding as little-endian float32 bytes for
// storage.
func EncodeVector(vec []float32) []byte {
	out := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// DecodeVector is the inverse of EncodeVector.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a float32 multiple", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}

// l2Distance is the Euclidean distance between two vectors. Mismatched
// dimensions rank as infinitely far rather than erroring, so one stale row
// cannot poison a query.
func l2Distance(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
