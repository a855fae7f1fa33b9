package export

import (
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// WatchCursor tracks how far the `watch` subcommand has progressed through
// chat.db, persisted as a small JSON sidecar file rather than a full
// struct+encoding/json round trip — gjson/sjson are cheap enough for a
// two-field cursor and match the teacher's own light touch for ad hoc JSON.
type WatchCursor struct {
	LastRowID int64
	LastDate  int64
}

// LoadWatchCursor reads a cursor file; a missing file yields the zero
// cursor (start from the beginning) rather than an error.
func LoadWatchCursor(path string) (WatchCursor, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return WatchCursor{}, nil
	}
	if err != nil {
		return WatchCursor{}, err
	}
	result := gjson.ParseBytes(data)
	return WatchCursor{
		LastRowID: result.Get("last_rowid").Int(),
		LastDate:  result.Get("last_date").Int(),
	}, nil
}

// Save persists the cursor to path, building the JSON body with sjson
// rather than marshaling a struct.
func (c WatchCursor) Save(path string) error {
	body := "{}"
	body, err := sjson.Set(body, "last_rowid", c.LastRowID)
	if err != nil {
		return err
	}
	body, err = sjson.Set(body, "last_date", c.LastDate)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(body), 0o644)
}
