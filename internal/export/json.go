package export

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/lrhodin/imessage-export/internal/dates"
	"github.com/lrhodin/imessage-export/internal/imessage"
)

// jsonRecord is one exported message's JSON shape, matching the field set
// original_source's json.rs exporter emits per message.
type jsonRecord struct {
	Timestamp  string `json:"timestamp"`
	Sender     string `json:"sender"`
	Contents   string `json:"contents"`
	ReadTime   string `json:"readtime,omitempty"`
	IsFromMe   bool   `json:"is_from_me"`
	GUID       string `json:"guid"`
	Attachments int   `json:"attachments"`
}

// JSONWriter renders messages as newline-delimited pretty-printed JSON
// objects, one file per chat, matching original_source's json.rs exporter.
type JSONWriter struct {
	files *chatFiles
	log   zerolog.Logger
}

// NewJSONWriter opens (or creates) the per-chat .json files under dir.
func NewJSONWriter(dir string, log zerolog.Logger) (*JSONWriter, error) {
	files, err := newChatFiles(dir, ".json")
	if err != nil {
		return nil, err
	}
	return &JSONWriter{files: files, log: log}, nil
}

func (w *JSONWriter) WriteMessage(ctx context.Context, chat *imessage.Chat, msg imessage.Message) error {
	variant := msg.Classify()
	if variant.Kind == imessage.VariantTapback {
		return nil
	}

	f, err := w.files.get(chat)
	if err != nil {
		logWriteError(ctx, msg, err)
		return nil
	}

	contents := renderPlainText(msg)
	if variant.Kind == imessage.VariantApp && contents == "" {
		contents = renderBalloon(msg)
	}

	record := jsonRecord{
		Timestamp:   dates.Format(dates.ToTime(msg.Date)),
		Sender:      senderFor(msg),
		Contents:    contents,
		IsFromMe:    msg.IsFromMeEffective(),
		GUID:        msg.GUID,
		Attachments: msg.NumAttachments,
	}
	if msg.DateRead > 0 {
		record.ReadTime = dates.Format(dates.ToTime(msg.DateRead))
	}

	encoded, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		logWriteError(ctx, msg, err)
		return nil
	}
	if _, err := f.Write(append(encoded, '\n')); err != nil {
		logWriteError(ctx, msg, err)
	}
	return nil
}

func senderFor(msg imessage.Message) string {
	if msg.IsFromMeEffective() {
		return "Me"
	}
	if msg.DestinationCallerID != "" {
		return msg.DestinationCallerID
	}
	return ""
}

func (w *JSONWriter) Close() error { return w.files.closeAll() }
