package balloon

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/lrhodin/imessage-export/internal/plist"
)

// ExtractCheckIn parses a CheckInBalloon out of the query string embedded in
// the payload's url. Classification into "timer pending / expired /
// accepted" is by which key is present, in priority order: estimatedEndTime,
// then triggerTime, then sendDate. Each value is seconds since the Unix
// epoch, stored as a float.
func ExtractCheckIn(root plist.Node) CheckInBalloon {
	raw := str(root, "url")
	query := raw
	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		query = raw[idx+1:]
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return CheckInBalloon{}
	}

	var out CheckInBalloon
	if v, ok := firstFloat(values, "estimatedEndTime"); ok {
		out.EstimatedEndTime = v
		out.Status = CheckInTimerPending
		return out
	}
	if v, ok := firstFloat(values, "triggerTime"); ok {
		out.TriggerTime = v
		out.Status = CheckInTimerExpired
		return out
	}
	if v, ok := firstFloat(values, "sendDate"); ok {
		out.SendDate = v
		out.Status = CheckInAccepted
		return out
	}
	return out
}

func firstFloat(values url.Values, key string) (float64, bool) {
	raw := values.Get(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
