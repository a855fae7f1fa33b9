package export

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lrhodin/imessage-export/internal/imessage"
)

// ChatResolver looks up a chat by id for attaching to a streamed message;
// callers typically back this with a map built from ChatDB.Chats.
type ChatResolver func(chatID int64) *imessage.Chat

// Run drives qc through db and feeds every row to w, in the single
// shared-connection mode spec.md §5 describes as the default.
func Run(ctx context.Context, db *imessage.ChatDB, qc imessage.QueryContext, resolve ChatResolver, w Writer) error {
	return db.Stream(ctx, qc, func(msg imessage.Message) error {
		return w.WriteMessage(ctx, resolve(msg.ChatID), msg)
	})
}

// RunSharded runs one streaming pipeline per chat id in chatIDs
// concurrently, each opening its own read-only connection to path — the
// sharding-by-conversation mode spec.md §5 explicitly allows ("sharding
// across conversations by running one pipeline per connection").
func RunSharded(ctx context.Context, path string, chatIDs []int, resolve ChatResolver, newWriter func() (Writer, error)) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, chatID := range chatIDs {
		chatID := chatID
		g.Go(func() error {
			db, err := imessage.Open(gctx, path)
			if err != nil {
				return err
			}
			defer db.Close()

			w, err := newWriter()
			if err != nil {
				return err
			}
			defer w.Close()

			var qc imessage.QueryContext
			qc.SetSelectedChatIDs([]int{chatID})
			return db.Stream(gctx, qc, func(msg imessage.Message) error {
				return w.WriteMessage(gctx, resolve(msg.ChatID), msg)
			})
		})
	}
	return g.Wait()
}
