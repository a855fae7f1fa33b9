package balloon

// DecodeDigitalTouch validates and wraps the raw Digital Touch protobuf
// payload. spec.md §4.4 treats this as a raw payload with no further
// schema to decode (no .proto definition for it is present anywhere in the
// retrieval pack); the payload is retained as-is for a writer to embed or
// skip.
func DecodeDigitalTouch(raw []byte) (DigitalTouchBalloon, error) {
	if len(raw) == 0 {
		return DigitalTouchBalloon{}, &NoPayloadError{}
	}
	cp := append([]byte(nil), raw...)
	return DigitalTouchBalloon{Payload: cp}, nil
}
