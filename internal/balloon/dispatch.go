package balloon

import "github.com/lrhodin/imessage-export/internal/plist"

// Extract dispatches on kind to the matching extractor and returns the
// typed balloon record as `any` (one of the *Balloon/AppMessage types in
// types.go). Handwriting and DigitalTouch ignore root (they decode a raw
// byte payload instead, via rawPayload) since those two kinds carry no
// NSKeyedArchiver plist at all, per spec.md §4.4.
func Extract(kind Kind, root plist.Node, rawPayload []byte) (any, error) {
	switch kind {
	case KindURL:
		switch urlKind := ClassifyURLKind(root); urlKind {
		case KindMusic:
			return ExtractMusic(root), nil
		case KindCollaboration:
			return ExtractCollaboration(root), nil
		case KindAppStore:
			return ExtractAppStore(root), nil
		case KindPlacemark:
			return ExtractPlacemark(root), nil
		default:
			return ExtractURL(root), nil
		}
	case KindApplePay:
		return ExtractApplePay(root), nil
	case KindFitness:
		return ExtractFitness(root), nil
	case KindSlideshow:
		return ExtractSlideshow(root), nil
	case KindCheckIn:
		return ExtractCheckIn(root), nil
	case KindFindMy:
		return ExtractFindMy(root), nil
	case KindHandwriting:
		return DecodeHandwriting(rawPayload)
	case KindDigitalTouch:
		return DecodeDigitalTouch(rawPayload)
	default:
		return ExtractGeneric(root), nil
	}
}
