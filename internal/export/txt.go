package export

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lrhodin/imessage-export/internal/dates"
	"github.com/lrhodin/imessage-export/internal/imessage"
)

// TxtWriter renders messages as the plain-text transcript format
// original_source's txt.rs exporter produces, one file per chat.
type TxtWriter struct {
	files *chatFiles
	log   zerolog.Logger
}

// NewTxtWriter opens (or creates) the per-chat .txt files under dir.
func NewTxtWriter(dir string, log zerolog.Logger) (*TxtWriter, error) {
	files, err := newChatFiles(dir, ".txt")
	if err != nil {
		return nil, err
	}
	return &TxtWriter{files: files, log: log}, nil
}

func (w *TxtWriter) WriteMessage(ctx context.Context, chat *imessage.Chat, msg imessage.Message) error {
	f, err := w.files.get(chat)
	if err != nil {
		logWriteError(ctx, msg, err)
		return nil
	}

	sender := "Me"
	if !msg.IsFromMeEffective() {
		sender = msg.DestinationCallerID
		if sender == "" {
			sender = fmt.Sprintf("handle-%d", msg.HandleID)
		}
	}

	timestamp := dates.Format(dates.ToTime(msg.Date))
	contents := renderPlainText(msg)

	variant := msg.Classify()
	switch variant.Kind {
	case imessage.VariantTapback:
		return nil // tapbacks are not written to the transcript
	case imessage.VariantSharePlay:
		contents = "SharePlay message"
	case imessage.VariantApp:
		if contents == "" {
			contents = renderBalloon(msg)
		}
	}

	if announcement, ok := msg.GetAnnouncement(); ok {
		contents = formatAnnouncement(announcement)
	}

	line := fmt.Sprintf("%s (%s)\n%s\n\n", timestamp, sender, contents)
	if _, err := f.WriteString(line); err != nil {
		logWriteError(ctx, msg, err)
	}
	return nil
}

func formatAnnouncement(a imessage.Announcement) string {
	switch a.Kind {
	case imessage.AnnouncementFullyUnsent:
		return "This message was removed."
	case imessage.AnnouncementAudioMessageKept:
		return "An audio message was kept."
	case imessage.AnnouncementGroupAction:
		switch a.GroupAction.Kind {
		case imessage.GroupActionParticipantAdded:
			return fmt.Sprintf("A participant (handle %d) was added to the conversation.", a.GroupAction.HandleID)
		case imessage.GroupActionParticipantRemoved:
			return fmt.Sprintf("A participant (handle %d) was removed from the conversation.", a.GroupAction.HandleID)
		case imessage.GroupActionNameChange:
			return fmt.Sprintf("The group name changed to %q.", a.GroupAction.NewGroupName)
		case imessage.GroupActionParticipantLeft:
			return "A participant left the conversation."
		case imessage.GroupActionIconChanged:
			return "The group icon changed."
		case imessage.GroupActionIconRemoved:
			return "The group icon was removed."
		}
	}
	return "Announcement"
}

func (w *TxtWriter) Close() error { return w.files.closeAll() }
