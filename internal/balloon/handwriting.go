package balloon

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/ulikunitz/xz/lzma"
)

const (
	handwritingFrameHeaderLen = 8
	compressionNone           = 0
	compressionLZMA           = 1
)

// DecodeHandwriting parses the raw Handwriting balloon payload: an 8-byte
// frame header, a 1-byte compression flag, and either a raw or
// LZMA-compressed body encoding a sequence of strokes, each a sequence of
// (x, y) points. Coordinates must be resizable to int32; a value outside
// that range fails with ResizeError, wrapped in HandwritingError so callers
// route it through the same plist-parse error path as other balloon
// failures (spec.md §7).
//
// LZMA decompression is delegated to github.com/ulikunitz/xz, an
// out-of-pack ecosystem dependency (see DESIGN.md) — no pack example
// carries its own LZMA reader, and Apple's real inner protobuf schema for
// this payload isn't present in the retrieval pack either, so the point
// layout below is this package's own documented convention for the shape
// spec.md describes, not a claim of bit-exact Apple compatibility.
func DecodeHandwriting(raw []byte) (HandwritingBalloon, error) {
	if len(raw) < handwritingFrameHeaderLen+1 {
		return HandwritingBalloon{}, &HandwritingError{Cause: &InvalidFrameSizeError{Size: len(raw)}}
	}
	body := raw[handwritingFrameHeaderLen:]
	flag := body[0]
	body = body[1:]

	var decompressed []byte
	switch flag {
	case compressionNone:
		decompressed = body
	case compressionLZMA:
		r, err := lzma.NewReader(bytes.NewReader(body))
		if err != nil {
			return HandwritingBalloon{}, &HandwritingError{Cause: err}
		}
		decompressed, err = io.ReadAll(r)
		if err != nil {
			return HandwritingBalloon{}, &HandwritingError{Cause: err}
		}
	default:
		return HandwritingBalloon{}, &HandwritingError{Cause: &CompressionUnknownError{Flag: flag}}
	}
	if decompressed == nil {
		return HandwritingBalloon{}, &HandwritingError{Cause: &DecompressedNotSetError{}}
	}

	strokes, err := parseStrokes(decompressed)
	if err != nil {
		return HandwritingBalloon{}, &HandwritingError{Cause: err}
	}
	return HandwritingBalloon{Strokes: strokes}, nil
}

func parseStrokes(buf []byte) ([][]Point, error) {
	r := bytes.NewReader(buf)

	var strokeCount uint32
	if err := binary.Read(r, binary.LittleEndian, &strokeCount); err != nil {
		return nil, &InvalidDecompressedLengthError{Expected: 4, Got: len(buf)}
	}

	strokes := make([][]Point, 0, strokeCount)
	for s := uint32(0); s < strokeCount; s++ {
		var pointCount uint32
		if err := binary.Read(r, binary.LittleEndian, &pointCount); err != nil {
			return nil, &InvalidStrokesLengthError{Index: int(s), Length: -1}
		}
		points := make([]Point, 0, pointCount)
		for p := uint32(0); p < pointCount; p++ {
			var x, y int64
			if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
				return nil, &InvalidStrokesLengthError{Index: int(s), Length: int(pointCount)}
			}
			if err := binary.Read(r, binary.LittleEndian, &y); err != nil {
				return nil, &InvalidStrokesLengthError{Index: int(s), Length: int(pointCount)}
			}
			xi, err := resizeToInt32(x)
			if err != nil {
				return nil, err
			}
			yi, err := resizeToInt32(y)
			if err != nil {
				return nil, err
			}
			points = append(points, Point{X: xi, Y: yi})
		}
		strokes = append(strokes, points)
	}
	return strokes, nil
}

func resizeToInt32(v int64) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, &ResizeError{Value: v}
	}
	return int32(v), nil
}
