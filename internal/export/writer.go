// Package export implements the txt/json output writers imessage-export
// drives a stream of decoded imessage.Message rows through. This is the
// one place in the module that logs (spec.md §7: "The core never logs; it
// only returns. Writers log and continue.").
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lrhodin/imessage-export/internal/body"
	"github.com/lrhodin/imessage-export/internal/imessage"
)

// orphanedFilename is the file messages with no resolvable chat are
// written to, matching original_source's ORPHANED constant.
const orphanedFilename = "orphaned"

// Writer consumes one decoded message at a time and is responsible for
// routing it to the right per-chat output file.
type Writer interface {
	WriteMessage(ctx context.Context, chat *imessage.Chat, msg imessage.Message) error
	Close() error
}

// chatFiles caches one *os.File per resolved output filename, the same
// "open once, append repeatedly" pattern original_source's Exporter trait
// uses via its files HashMap.
type chatFiles struct {
	dir       string
	ext       string
	files     map[string]*os.File
	orphaned  *os.File
}

func newChatFiles(dir, ext string) (*chatFiles, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	orphaned, err := os.OpenFile(filepath.Join(dir, orphanedFilename+ext), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &chatFiles{dir: dir, ext: ext, files: map[string]*os.File{}, orphaned: orphaned}, nil
}

func (cf *chatFiles) get(chat *imessage.Chat) (*os.File, error) {
	if chat == nil {
		return cf.orphaned, nil
	}
	name := sanitizeFilename(chat.DisplayName)
	if name == "" {
		name = sanitizeFilename(chat.ChatIdentifier)
	}
	if name == "" {
		name = fmt.Sprintf("chat-%d", chat.RowID)
	}
	if f, ok := cf.files[name]; ok {
		return f, nil
	}
	f, err := os.OpenFile(filepath.Join(cf.dir, name+cf.ext), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	cf.files[name] = f
	return f, nil
}

func (cf *chatFiles) closeAll() error {
	var firstErr error
	for _, f := range cf.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := cf.orphaned.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(s)
}

// renderPlainText flattens msg's component list against its full text to
// the same plain-text shape original_source's txt exporter produces, per
// spec.md §4.6's Component model: text runs are byte-offset slices into
// text, attachments/retractions render as bracketed placeholders, and an
// App component is decoded and rendered via renderBalloon.
func renderPlainText(msg imessage.Message) string {
	var b strings.Builder
	for _, c := range msg.Components {
		switch c.Kind {
		case body.ComponentText:
			for _, r := range c.Runs {
				if r.Start < 0 || r.End > len(msg.Text) || r.Start > r.End {
					continue
				}
				b.WriteString(msg.Text[r.Start:r.End])
			}
		case body.ComponentAttachment:
			if c.Attachment.Name != nil {
				fmt.Fprintf(&b, "[Attachment: %s]", *c.Attachment.Name)
			} else {
				b.WriteString("[Attachment]")
			}
		case body.ComponentApp:
			b.WriteString(renderBalloon(msg))
		case body.ComponentRetracted:
			b.WriteString("[This message was removed]")
		}
	}
	return b.String()
}

// logWriteError logs a per-message write failure and continues, per
// spec.md §7's "writers log and continue" contract.
func logWriteError(ctx context.Context, msg imessage.Message, err error) {
	zerolog.Ctx(ctx).Error().Err(err).Str("guid", msg.GUID).Msg("failed to write message")
}
