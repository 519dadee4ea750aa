package embcache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Entry layout: one version byte, a little-endian uint32 dimension count,
// then the float32 components.
const (
	codecVersion = 1
	headerSize   = 5
)

var errCorruptEntry = errors.New("corrupt embedding cache entry")

func encodeVector(v []float32) []byte {
	buf := make([]byte, headerSize+len(v)*4)
	buf[0] = codecVersion
	binary.LittleEndian.PutUint32(buf[1:headerSize], uint32(len(v))) //nolint:gosec // embedding dims fit in uint32
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[headerSize+i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", errCorruptEntry, len(data))
	}
	if data[0] != codecVersion {
		return nil, fmt.Errorf("%w: version %d", errCorruptEntry, data[0])
	}
	dim := int(binary.LittleEndian.Uint32(data[1:headerSize]))
	body := data[headerSize:]
	if dim == 0 || len(body) != dim*4 {
		return nil, fmt.Errorf("%w: dim %d, payload %d bytes", errCorruptEntry, dim, len(body))
	}
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
	}
	return vec, nil
}
