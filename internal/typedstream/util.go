package typedstream

import (
	"errors"
	"math"
)

var errNotUTF8 = errors.New("invalid utf-8 sequence")

func float32FromBits(bits uint32) float32 { return math.Float32frombits(bits) }
func float64FromBits(bits uint64) float64 { return math.Float64frombits(bits) }
