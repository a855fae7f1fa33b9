package balloon

// Kind classifies which balloon extractor applies to a message, selected
// from its balloon_bundle_id (after ParseBundleID), per spec.md §4.4's
// table.
type Kind int

const (
	KindURL Kind = iota
	KindMusic
	KindCollaboration
	KindAppStore
	KindPlacemark
	KindApplePay
	KindFitness
	KindSlideshow
	KindCheckIn
	KindFindMy
	KindHandwriting
	KindDigitalTouch
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindURL:
		return "URL"
	case KindMusic:
		return "Music"
	case KindCollaboration:
		return "Collaboration"
	case KindAppStore:
		return "AppStore"
	case KindPlacemark:
		return "Placemark"
	case KindApplePay:
		return "ApplePay"
	case KindFitness:
		return "Fitness"
	case KindSlideshow:
		return "Slideshow"
	case KindCheckIn:
		return "CheckIn"
	case KindFindMy:
		return "FindMy"
	case KindHandwriting:
		return "Handwriting"
	case KindDigitalTouch:
		return "DigitalTouch"
	default:
		return "Generic"
	}
}

// Bundle-id stems that identify a non-URL-derived balloon kind directly,
// per spec.md §4.4.
const (
	bundleApplePay     = "com.apple.PassbookUIService.PeerPaymentMessagesExtension"
	bundleFitness      = "com.apple.ActivityMessagesApp.MessagesExtension"
	bundleSlideshow    = "com.apple.mobileslideshow.PhotosMessagesApp"
	bundleCheckIn      = "com.apple.SafetyMonitorApp.SafetyMonitorMessages"
	bundleFindMy       = "com.apple.findmy.FindMyMessagesApp"
	bundleHandwriting  = "com.apple.Handwriting.HandwritingProvider"
	bundleDigitalTouch = "com.apple.DigitalTouchBalloonProvider"
	bundleURL          = "com.apple.messages.URLBalloonProvider"
)

// KindFromBundleID classifies a (already team-stripped, see ParseBundleID)
// bundle id into a Kind. URL-derived kinds (Music, Collaboration, AppStore,
// Placemark) all share the URL bundle id and are distinguished later, by
// which keys are actually present in the resolved payload (ClassifyURLKind).
func KindFromBundleID(bundleID string) Kind {
	switch bundleID {
	case bundleURL:
		return KindURL
	case bundleApplePay:
		return KindApplePay
	case bundleFitness:
		return KindFitness
	case bundleSlideshow:
		return KindSlideshow
	case bundleCheckIn:
		return KindCheckIn
	case bundleFindMy:
		return KindFindMy
	case bundleHandwriting:
		return KindHandwriting
	case bundleDigitalTouch:
		return KindDigitalTouch
	default:
		return KindGeneric
	}
}

// URLBalloon is a plain link preview.
type URLBalloon struct {
	Title       string
	Summary     string
	URL         string
	OriginalURL string
	Images      []string
	Icons       []string
	SiteName    string
}

// MusicBalloon is an Apple Music / media share preview.
type MusicBalloon struct {
	URL       string
	Preview   string
	Artist    string
	Album     string
	TrackName string
	Lyrics    []string
}

// CollaborationBalloon is a shared-document (Pages/Notes/Freeform, ...)
// invite.
type CollaborationBalloon struct {
	URL          string
	Title        string
	CreationDate int64
	BundleID     string
	AppName      string
}

// AppStoreBalloon is an App Store link share.
type AppStoreBalloon struct {
	URL         string
	AppName     string
	Description string
	Platform    string
	Genre       string
}

// Placemark is the nested address block of a PlacemarkBalloon.
type Placemark struct {
	Address    string
	City       string
	State      string
	Country    string
	PostalCode string
}

// PlacemarkBalloon is a shared location.
type PlacemarkBalloon struct {
	URL       string
	PlaceName string
	Placemark Placemark
}

// ApplePayBalloon is a Messages Pay transaction receipt.
type ApplePayBalloon struct {
	LDText  string
	Caption string
}

// FitnessBalloon is an Activity-sharing invite/update.
type FitnessBalloon struct {
	AppName string
	LDText  string
}

// SlideshowBalloon is a Photos slideshow share.
type SlideshowBalloon struct {
	URL    string
	LDText string
}

// CheckInStatus classifies a CheckInBalloon by which timing key is present,
// in priority order (estimatedEndTime, then triggerTime, then sendDate).
type CheckInStatus int

const (
	CheckInUnknown CheckInStatus = iota
	CheckInTimerPending
	CheckInTimerExpired
	CheckInAccepted
)

// CheckInBalloon is a Check In status update, whose fields are parsed out
// of a query string embedded in its url.
type CheckInBalloon struct {
	Status           CheckInStatus
	EstimatedEndTime float64
	TriggerTime      float64
	SendDate         float64
}

// FindMyBalloon is a Find My location share.
type FindMyBalloon struct {
	AppName string
	LDText  string
}

// AppMessage is the generic/fallback balloon shape used for any app
// extension not covered by a more specific kind.
type AppMessage struct {
	Image              string
	URL                string
	Title              string
	Subtitle           string
	Caption            string
	Subcaption         string
	TrailingCaption    string
	TrailingSubcaption string
	AppName            string
	LDText             string
}

// HandwritingBalloon is a decoded sketch: a sequence of strokes, each a
// sequence of integer-resizable (x, y) points.
type HandwritingBalloon struct {
	Strokes [][]Point
}

// Point is one coordinate of a handwriting stroke.
type Point struct {
	X, Y int32
}

// DigitalTouchBalloon is the opaque protobuf payload of a Digital Touch
// effect (heartbeat, sketch, kiss, ...); spec.md treats this as a raw
// payload with no further schema, so the payload bytes are kept as-is (a
// copy, checked only for being non-empty).
type DigitalTouchBalloon struct {
	Payload []byte
}
