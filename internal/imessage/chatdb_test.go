package imessage

import (
	"context"
	"database/sql"
	"testing"

	"go.mau.fi/util/dbutil"

	_ "github.com/mattn/go-sqlite3"
)

// openMemoryChatDB builds an in-memory chat.db with the given schema DDL
// and returns a ChatDB wired directly onto it, bypassing Open's file-path
// handling (SPEC_FULL.md §10 calls for exercising each schema generation
// against a synthetic in-memory database rather than a real backup file).
func openMemoryChatDB(t *testing.T, ddl string) *ChatDB {
	t.Helper()
	raw, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if _, err := raw.Exec(ddl); err != nil {
		t.Fatalf("exec ddl: %v", err)
	}
	gen, err := detectGeneration(context.Background(), raw)
	if err != nil {
		t.Fatalf("detect generation: %v", err)
	}
	return &ChatDB{db: dbutil.NewWithDB(raw, "sqlite3"), raw: raw, generation: gen}
}

const ddlIOS16 = `
CREATE TABLE message (
	rowid INTEGER PRIMARY KEY, guid TEXT, text TEXT, service TEXT,
	handle_id INTEGER, destination_caller_id TEXT, is_from_me INTEGER,
	other_handle INTEGER, share_status INTEGER, share_direction INTEGER,
	date INTEGER, date_read INTEGER, date_delivered INTEGER, date_edited INTEGER,
	item_type INTEGER, group_action_type INTEGER, group_title TEXT,
	associated_message_type INTEGER, associated_message_guid TEXT,
	balloon_bundle_id TEXT, expressive_send_style_id TEXT,
	attributedBody BLOB, payload_data BLOB, message_summary_info BLOB,
	associated_message_emoji TEXT, thread_originator_guid TEXT, thread_originator_part TEXT
);
CREATE TABLE chat_message_join (chat_id INTEGER, message_id INTEGER);
CREATE TABLE chat_recoverable_message_join (chat_id INTEGER, message_id INTEGER);
CREATE TABLE message_attachment_join (message_id INTEGER, attachment_id INTEGER);
CREATE TABLE chat (rowid INTEGER PRIMARY KEY, guid TEXT, chat_identifier TEXT, service_name TEXT, display_name TEXT, properties BLOB);

INSERT INTO message (rowid, guid, text, date) VALUES (1, 'g1', 'hello', 100);
INSERT INTO message (rowid, guid, text, date) VALUES (2, 'g2', 'world', 200);
INSERT INTO chat_message_join (chat_id, message_id) VALUES (10, 1);
INSERT INTO chat_message_join (chat_id, message_id) VALUES (10, 2);
`

const ddlIOS1415 = `
CREATE TABLE message (
	rowid INTEGER PRIMARY KEY, guid TEXT, text TEXT, service TEXT,
	handle_id INTEGER, destination_caller_id TEXT, is_from_me INTEGER,
	other_handle INTEGER, share_status INTEGER, share_direction INTEGER,
	date INTEGER, date_read INTEGER, date_delivered INTEGER, date_edited INTEGER,
	item_type INTEGER, group_action_type INTEGER, group_title TEXT,
	associated_message_type INTEGER, associated_message_guid TEXT,
	balloon_bundle_id TEXT, expressive_send_style_id TEXT,
	attributedBody BLOB, payload_data BLOB, message_summary_info BLOB,
	associated_message_emoji TEXT, thread_originator_guid TEXT, thread_originator_part TEXT
);
CREATE TABLE chat_message_join (chat_id INTEGER, message_id INTEGER);
CREATE TABLE message_attachment_join (message_id INTEGER, attachment_id INTEGER);

INSERT INTO message (rowid, guid, text, date) VALUES (1, 'g1', 'hello', 100);
INSERT INTO chat_message_join (chat_id, message_id) VALUES (20, 1);
`

const ddlIOS13 = `
CREATE TABLE message (
	rowid INTEGER PRIMARY KEY, guid TEXT, text TEXT, service TEXT,
	handle_id INTEGER, destination_caller_id TEXT, is_from_me INTEGER,
	other_handle INTEGER, share_status INTEGER, share_direction INTEGER,
	date INTEGER, date_read INTEGER, date_delivered INTEGER, date_edited INTEGER,
	item_type INTEGER, group_action_type INTEGER, group_title TEXT,
	associated_message_type INTEGER, associated_message_guid TEXT,
	balloon_bundle_id TEXT, expressive_send_style_id TEXT,
	attributedBody BLOB, payload_data BLOB, message_summary_info BLOB
);
CREATE TABLE chat_message_join (chat_id INTEGER, message_id INTEGER);
CREATE TABLE message_attachment_join (message_id INTEGER, attachment_id INTEGER);

INSERT INTO message (rowid, guid, text, date) VALUES (1, 'g1', 'hello', 100);
INSERT INTO chat_message_join (chat_id, message_id) VALUES (30, 1);
`

func TestDetectGenerationIOS16(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS16)
	defer c.Close()
	if c.generation != schemaIOS16Newer {
		t.Fatalf("expected schemaIOS16Newer, got %v", c.generation)
	}
}

func TestDetectGenerationIOS1415(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS1415)
	defer c.Close()
	if c.generation != schemaIOS1415 {
		t.Fatalf("expected schemaIOS1415, got %v", c.generation)
	}
}

func TestDetectGenerationIOS13(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS13)
	defer c.Close()
	if c.generation != schemaIOS13Older {
		t.Fatalf("expected schemaIOS13Older, got %v", c.generation)
	}
}

func TestStreamIOS16OrdersByDateAndProjectsDerivedColumns(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS16)
	defer c.Close()

	var got []Message
	err := c.Stream(context.Background(), QueryContext{}, func(m Message) error {
		got = append(got, m)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Text != "hello" || got[1].Text != "world" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if got[0].ChatID != 10 {
		t.Fatalf("expected chat id 10, got %d", got[0].ChatID)
	}
}

func TestStreamIOS13NoThreadOriginatorColumns(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS13)
	defer c.Close()

	var got []Message
	err := c.Stream(context.Background(), QueryContext{}, func(m Message) error {
		got = append(got, m)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 message, got %d", len(got))
	}
	if got[0].ThreadOriginatorGUID != "" || got[0].DeletedFrom != nil {
		t.Fatalf("expected zero-valued derived columns, got %+v", got[0])
	}
}

func TestGetCountMatchesStreamLength(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS16)
	defer c.Close()

	count, err := c.GetCount(context.Background(), QueryContext{})
	if err != nil {
		t.Fatalf("get count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestStreamFiltersByChatID(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS16)
	defer c.Close()

	var qc QueryContext
	qc.SetSelectedChatIDs([]int{10})

	var got []Message
	err := c.Stream(context.Background(), qc, func(m Message) error {
		got = append(got, m)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages for matching chat id, got %d", len(got))
	}

	qc.SetSelectedChatIDs([]int{999})
	got = nil
	err = c.Stream(context.Background(), qc, func(m Message) error {
		got = append(got, m)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected 0 messages for non-matching chat id, got %d", len(got))
	}
}

func TestDiagnoseReportsTotalsAndDangling(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS16)
	defer c.Close()
	if _, err := c.raw.Exec(`INSERT INTO message (rowid, guid, text, date) VALUES (3, 'g3', 'orphan', 300)`); err != nil {
		t.Fatalf("insert orphan: %v", err)
	}

	report, err := Diagnose(context.Background(), c)
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	if report.TotalMessages != 3 {
		t.Fatalf("expected 3 total messages, got %d", report.TotalMessages)
	}
	if report.DanglingMessages != 1 {
		t.Fatalf("expected 1 dangling message, got %d", report.DanglingMessages)
	}
}

func TestChatsDecodesPropertiesBlob(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS16)
	defer c.Close()
	if _, err := c.raw.Exec(
		`INSERT INTO chat (rowid, guid, chat_identifier, service_name, display_name, properties)
		 VALUES (1, 'chat-guid', '+15551234567', 'iMessage', 'Friends', NULL)`); err != nil {
		t.Fatalf("insert chat: %v", err)
	}

	chats, err := c.Chats(context.Background())
	if err != nil {
		t.Fatalf("chats: %v", err)
	}
	if len(chats) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(chats))
	}
	if chats[0].DisplayName != "Friends" {
		t.Fatalf("unexpected display name: %q", chats[0].DisplayName)
	}
	if chats[0].Properties != (ChatProperties{}) {
		t.Fatalf("expected zero-valued properties for NULL blob, got %+v", chats[0].Properties)
	}
}

func TestRepliesFiltersByThreadOriginatorGUID(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS16)
	defer c.Close()
	if _, err := c.raw.Exec(
		`UPDATE message SET thread_originator_guid = 'g1' WHERE rowid = 2`); err != nil {
		t.Fatalf("update: %v", err)
	}

	original := Message{GUID: "g1"}
	replies, err := original.Replies(context.Background(), c)
	if err != nil {
		t.Fatalf("replies: %v", err)
	}
	if len(replies) != 1 || replies[0].GUID != "g2" {
		t.Fatalf("unexpected replies: %+v", replies)
	}
}

func TestRepliesIOS13AlwaysEmpty(t *testing.T) {
	c := openMemoryChatDB(t, ddlIOS13)
	defer c.Close()

	original := Message{GUID: "g1"}
	replies, err := original.Replies(context.Background(), c)
	if err != nil {
		t.Fatalf("replies: %v", err)
	}
	if len(replies) != 0 {
		t.Fatalf("expected no replies on schema without thread_originator_guid, got %+v", replies)
	}
}
