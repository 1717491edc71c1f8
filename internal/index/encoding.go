package index

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeVectors packs a vector sequence into a little-endian blob of IEEE 754
// float32 values, row-major. The bit pattern round-trips exactly, so
// distances computed before and after persistence are identical.
func EncodeVectors(vectors [][]float32, dim int) ([]byte, error) {
	buf := make([]byte, 0, len(vectors)*dim*4)
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("vector %d: width %d, want %d", i, len(vec), dim)
		}
		for _, v := range vec {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}
	return buf, nil
}

// DecodeVectors unpacks a blob produced by EncodeVectors back into count
// vectors of the given dimension.
func DecodeVectors(blob []byte, count, dim int) ([][]float32, error) {
	if len(blob) != count*dim*4 {
		return nil, fmt.Errorf("vector blob is %d bytes, want %d (%d x %d floats)",
			len(blob), count*dim*4, count, dim)
	}
	vectors := make([][]float32, count)
	off := 0
	for i := range vectors {
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(blob[off:]))
			off += 4
		}
		vectors[i] = vec
	}
	return vectors, nil
}
