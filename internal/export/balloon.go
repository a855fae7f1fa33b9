package export

import (
	"fmt"
	"strings"

	"github.com/lrhodin/imessage-export/internal/balloon"
	"github.com/lrhodin/imessage-export/internal/imessage"
	"github.com/lrhodin/imessage-export/internal/plist"
)

// renderBalloon decodes msg's payload_data (C3 plist decode, then C4
// per-kind extraction) into its typed balloon record and renders it to a
// short, human-readable line, rather than the bare "[App]" placeholder
// every other App-balloon message was falling back to. Handwriting and
// DigitalTouch carry no plist at all (spec.md §4.4), so payload_data is
// handed to balloon.Extract directly without a plist.Decode step.
func renderBalloon(msg imessage.Message) string {
	bundle := balloon.ParseBundleID(msg.BalloonBundleID)
	if bundle == "" {
		return "[App]"
	}
	kind := balloon.KindFromBundleID(bundle)
	payload := msg.PayloadData()

	var root plist.Node
	if kind != balloon.KindHandwriting && kind != balloon.KindDigitalTouch {
		if len(payload) == 0 {
			return "[App]"
		}
		var err error
		root, err = plist.Decode(payload)
		if err != nil {
			return "[App]"
		}
	}

	decoded, err := balloon.Extract(kind, root, payload)
	if err != nil {
		return "[App]"
	}
	return formatBalloon(decoded)
}

// formatBalloon renders one of balloon.Extract's possible result types to
// a single display line. The case list mirrors dispatch.go's Extract
// switch; an unrecognized type falls back to the bare placeholder.
func formatBalloon(b any) string {
	switch v := b.(type) {
	case balloon.URLBalloon:
		return joinNonEmpty(v.Title, v.SiteName, v.URL)
	case balloon.MusicBalloon:
		return joinNonEmpty(trackLabel(v.TrackName, v.Artist), v.Album, v.URL)
	case balloon.CollaborationBalloon:
		return joinNonEmpty(v.AppName, v.Title, v.URL)
	case balloon.AppStoreBalloon:
		return joinNonEmpty(v.AppName, v.Description, v.URL)
	case balloon.PlacemarkBalloon:
		return joinNonEmpty(v.PlaceName, v.Placemark.Address, v.URL)
	case balloon.ApplePayBalloon:
		return joinNonEmpty(v.LDText, v.Caption)
	case balloon.FitnessBalloon:
		return joinNonEmpty(v.AppName, v.LDText)
	case balloon.SlideshowBalloon:
		return joinNonEmpty(v.LDText, v.URL)
	case balloon.CheckInBalloon:
		return formatCheckIn(v)
	case balloon.FindMyBalloon:
		return joinNonEmpty(v.AppName, v.LDText)
	case balloon.HandwritingBalloon:
		return fmt.Sprintf("[Handwriting: %d strokes]", len(v.Strokes))
	case balloon.DigitalTouchBalloon:
		return "[Digital Touch]"
	case balloon.AppMessage:
		return joinNonEmpty(v.AppName, v.Title, v.Subtitle, v.Caption, v.URL)
	default:
		return "[App]"
	}
}

func trackLabel(trackName, artist string) string {
	switch {
	case trackName != "" && artist != "":
		return fmt.Sprintf("%s - %s", trackName, artist)
	case trackName != "":
		return trackName
	default:
		return artist
	}
}

func formatCheckIn(b balloon.CheckInBalloon) string {
	switch b.Status {
	case balloon.CheckInTimerPending:
		return "Check In: timer pending"
	case balloon.CheckInTimerExpired:
		return "Check In: timer expired"
	case balloon.CheckInAccepted:
		return "Check In: accepted"
	default:
		return "Check In"
	}
}

// joinNonEmpty joins parts with a middle dot, skipping empty ones, and
// falls back to the bare placeholder when nothing survived.
func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "[App]"
	}
	return strings.Join(out, " · ")
}
