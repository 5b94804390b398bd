package mps

import "math"

// MapBytes converts raw bytes to complex amplitudes: real part byte/255,
// imaginary part zero. The mapping is a bijection between byte values and
// the 256 amplitude levels, inverted by Quantize.
func MapBytes(data []byte) []complex128 {
	amps := make([]complex128, len(data))
	for i, b := range data {
		amps[i] = complex(float64(b)/255.0, 0)
	}

	return amps
}

// Quantize converts amplitudes back to bytes by rounding re*255 and
// clamping into [0, 255]. Any residual imaginary component is
// reconstruction noise and is discarded.
func Quantize(amps []complex128) []byte {
	data := make([]byte, len(amps))
	for i, a := range amps {
		v := math.Round(real(a) * 255.0)
		switch {
		case v < 0:
			data[i] = 0
		case v > 255:
			data[i] = 255
		default:
			data[i] = byte(v)
		}
	}

	return data
}
