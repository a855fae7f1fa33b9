package balloon

import "github.com/lrhodin/imessage-export/internal/plist"

func str(n plist.Node, key string) string {
	if v, ok := n.Get(key); ok {
		if s, ok := v.AsString(); ok {
			return s
		}
	}
	return ""
}

func strArray(n plist.Node, key string) []string {
	v, ok := n.Get(key)
	if !ok {
		return nil
	}
	arr, ok := v.AsArray()
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

func integer(n plist.Node, key string) int64 {
	if v, ok := n.Get(key); ok {
		if i, ok := v.AsInteger(); ok {
			return i
		}
	}
	return 0
}

// ClassifyURLKind distinguishes the four URL-bundle-derived balloon shapes
// by which keys are actually present in the resolved payload, since they
// all share bundleURL. Order matters: Music/Collaboration/AppStore/
// Placemark each have a distinguishing key absent from a plain link
// preview.
func ClassifyURLKind(root plist.Node) Kind {
	switch {
	case has(root, "trackName"), has(root, "lyrics"):
		return KindMusic
	case has(root, "bundleID"), has(root, "creationDate"):
		return KindCollaboration
	case has(root, "platform"), has(root, "genre"):
		return KindAppStore
	case has(root, "placeName"), has(root, "placemark"):
		return KindPlacemark
	default:
		return KindURL
	}
}

func has(n plist.Node, key string) bool {
	_, ok := n.Get(key)
	return ok
}

// ExtractURL builds a URLBalloon from the resolved payload.
func ExtractURL(root plist.Node) URLBalloon {
	return URLBalloon{
		Title:       str(root, "title"),
		Summary:     str(root, "summary"),
		URL:         str(root, "url"),
		OriginalURL: str(root, "original_url"),
		Images:      strArray(root, "images"),
		Icons:       strArray(root, "icons"),
		SiteName:    str(root, "site_name"),
	}
}

// ExtractMusic builds a MusicBalloon from the resolved payload.
func ExtractMusic(root plist.Node) MusicBalloon {
	return MusicBalloon{
		URL:       str(root, "url"),
		Preview:   str(root, "preview"),
		Artist:    str(root, "artist"),
		Album:     str(root, "album"),
		TrackName: str(root, "track_name"),
		Lyrics:    strArray(root, "lyrics"),
	}
}

// ExtractCollaboration builds a CollaborationBalloon from the resolved
// payload.
func ExtractCollaboration(root plist.Node) CollaborationBalloon {
	return CollaborationBalloon{
		URL:          str(root, "url"),
		Title:        str(root, "title"),
		CreationDate: integer(root, "creation_date"),
		BundleID:     str(root, "bundle_id"),
		AppName:      str(root, "app_name"),
	}
}

// ExtractAppStore builds an AppStoreBalloon from the resolved payload.
func ExtractAppStore(root plist.Node) AppStoreBalloon {
	return AppStoreBalloon{
		URL:         str(root, "url"),
		AppName:     str(root, "app_name"),
		Description: str(root, "description"),
		Platform:    str(root, "platform"),
		Genre:       str(root, "genre"),
	}
}

// ExtractPlacemark builds a PlacemarkBalloon from the resolved payload.
func ExtractPlacemark(root plist.Node) PlacemarkBalloon {
	out := PlacemarkBalloon{
		URL:       str(root, "url"),
		PlaceName: str(root, "place_name"),
	}
	if pm, ok := root.Get("placemark"); ok {
		out.Placemark = Placemark{
			Address:    str(pm, "address"),
			City:       str(pm, "city"),
			State:      str(pm, "state"),
			Country:    str(pm, "country"),
			PostalCode: str(pm, "postal_code"),
		}
	}
	return out
}

// ExtractApplePay builds an ApplePayBalloon from the resolved payload.
func ExtractApplePay(root plist.Node) ApplePayBalloon {
	return ApplePayBalloon{LDText: str(root, "ldtext"), Caption: str(root, "caption")}
}

// ExtractFitness builds a FitnessBalloon from the resolved payload.
func ExtractFitness(root plist.Node) FitnessBalloon {
	return FitnessBalloon{AppName: str(root, "app_name"), LDText: str(root, "ldtext")}
}

// ExtractSlideshow builds a SlideshowBalloon from the resolved payload.
func ExtractSlideshow(root plist.Node) SlideshowBalloon {
	return SlideshowBalloon{URL: str(root, "url"), LDText: str(root, "ldtext")}
}

// ExtractFindMy builds a FindMyBalloon from the resolved payload.
func ExtractFindMy(root plist.Node) FindMyBalloon {
	return FindMyBalloon{AppName: str(root, "app_name"), LDText: str(root, "ldtext")}
}

// ExtractGeneric builds the full-fidelity AppMessage fallback shape used
// for any app extension not matched by a more specific extractor.
func ExtractGeneric(root plist.Node) AppMessage {
	return AppMessage{
		Image:              str(root, "image"),
		URL:                str(root, "url"),
		Title:              str(root, "title"),
		Subtitle:           str(root, "subtitle"),
		Caption:            str(root, "caption"),
		Subcaption:         str(root, "subcaption"),
		TrailingCaption:    str(root, "trailing_caption"),
		TrailingSubcaption: str(root, "trailing_subcaption"),
		AppName:            str(root, "app_name"),
		LDText:             str(root, "ldtext"),
	}
}
