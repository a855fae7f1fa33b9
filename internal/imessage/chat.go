package imessage

import (
	"context"

	"github.com/lrhodin/imessage-export/internal/plist"
)

// Chat is one row of the `chat` table, per SPEC_FULL.md §12.
type Chat struct {
	RowID          int64
	GUID           string
	ChatIdentifier string
	ServiceName    string
	DisplayName    string

	Properties ChatProperties
}

// ChatProperties is the decoded subset of a chat's properties plist that
// the export pipeline cares about, per SPEC_FULL.md §12.
type ChatProperties struct {
	ReadReceiptsEnabled bool
	LastMessageGUID     string
	ForcedSMS           bool
	GroupPhotoGUID      string
}

// decodeChatProperties walks a chat.properties NSKeyedArchiver blob with
// the C3 plist resolver and pulls out the four fields SPEC_FULL.md names.
// A malformed or absent blob yields the zero ChatProperties rather than an
// error: properties are cosmetic metadata, never required to export a
// conversation's messages.
func decodeChatProperties(blob []byte) ChatProperties {
	if len(blob) == 0 {
		return ChatProperties{}
	}
	root, err := plist.Decode(blob)
	if err != nil {
		return ChatProperties{}
	}
	var props ChatProperties
	if v, ok := root.Get("readReceiptsEnabled"); ok {
		props.ReadReceiptsEnabled, _ = v.AsBool()
	}
	if v, ok := root.Get("lastMessageGUIDs"); ok {
		if arr, ok := v.AsArray(); ok && len(arr) > 0 {
			props.LastMessageGUID, _ = arr[0].AsString()
		}
	}
	if v, ok := root.Get("forcedSMS"); ok {
		props.ForcedSMS, _ = v.AsBool()
	}
	if v, ok := root.Get("groupPhotoGUID"); ok {
		props.GroupPhotoGUID, _ = v.AsString()
	}
	return props
}

// Chats returns every row of the `chat` table with its properties blob
// decoded, per SPEC_FULL.md §12.
func (c *ChatDB) Chats(ctx context.Context) ([]Chat, error) {
	rows, err := c.db.Query(ctx, `
		SELECT rowid, guid,
			COALESCE(chat_identifier, ''),
			COALESCE(service_name, ''),
			COALESCE(display_name, ''),
			properties
		FROM chat
		ORDER BY rowid ASC`)
	if err != nil {
		return nil, &QueryError{Cause: err}
	}
	defer rows.Close()

	var out []Chat
	for rows.Next() {
		var ch Chat
		var propsBlob []byte
		if err := rows.Scan(&ch.RowID, &ch.GUID, &ch.ChatIdentifier, &ch.ServiceName, &ch.DisplayName, &propsBlob); err != nil {
			return nil, &CannotReadError{Cause: err}
		}
		ch.Properties = decodeChatProperties(propsBlob)
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, &CannotReadError{Cause: err}
	}
	return out, nil
}
