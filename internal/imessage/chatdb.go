package imessage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.mau.fi/util/dbutil"

	"github.com/lrhodin/imessage-export/internal/body"
	"github.com/lrhodin/imessage-export/internal/edited"
	"github.com/lrhodin/imessage-export/internal/plist"
)

// schemaGeneration identifies which of the three query shapes a database
// supports, per spec.md §4.8.
type schemaGeneration int

const (
	schemaIOS16Newer schemaGeneration = iota
	schemaIOS1415
	schemaIOS13Older
)

// ChatDB is a read-only handle onto an Apple Messages chat.db, wrapping the
// SQLite connection the same way the teacher wraps its own connections with
// go.mau.fi/util/dbutil's dialect-aware query helpers.
type ChatDB struct {
	db         *dbutil.Database
	raw        *sql.DB
	generation schemaGeneration
}

// Open opens path read-only and detects its schema generation by probing
// for chat_recoverable_message_join and thread_originator_guid, per
// spec.md §4.8's cascade (detected once at open rather than by repeated
// prepare-and-fallback, which is equivalent for a connection that does not
// change schema mid-run).
func Open(ctx context.Context, path string) (*ChatDB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_query_only=true&immutable=1", path)
	raw, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, &CannotConnectError{Path: path, Reason: ConnectDoesNotExist}
	}
	if err := raw.PingContext(ctx); err != nil {
		raw.Close()
		return nil, &CannotConnectError{Path: path, Reason: ConnectDoesNotExist}
	}

	cdb := &ChatDB{db: dbutil.NewWithDB(raw, "sqlite3"), raw: raw}
	cdb.generation, err = detectGeneration(ctx, raw)
	if err != nil {
		raw.Close()
		return nil, &QueryError{Cause: err}
	}
	return cdb, nil
}

// Close releases the underlying connection.
func (c *ChatDB) Close() error { return c.raw.Close() }

func detectGeneration(ctx context.Context, db *sql.DB) (schemaGeneration, error) {
	hasRecoverableJoin, err := tableExists(ctx, db, "chat_recoverable_message_join")
	if err != nil {
		return 0, err
	}
	hasThreadOriginator, err := columnExists(ctx, db, "message", "thread_originator_guid")
	if err != nil {
		return 0, err
	}
	switch {
	case hasRecoverableJoin && hasThreadOriginator:
		return schemaIOS16Newer, nil
	case hasThreadOriginator:
		return schemaIOS1415, nil
	default:
		return schemaIOS13Older, nil
	}
}

func tableExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// projectedColumns lists the SELECT expressions common to all three schema
// generations, in the order scanRow expects them.
var projectedColumns = []string{
	"m.rowid", "m.guid", "COALESCE(m.text, '')", "COALESCE(m.service, '')",
	"COALESCE(m.handle_id, 0)", "COALESCE(m.destination_caller_id, '')",
	"COALESCE(m.is_from_me, 0)", "m.other_handle", "COALESCE(m.share_status, 0)",
	"m.share_direction", "COALESCE(m.date, 0)", "COALESCE(m.date_read, 0)",
	"COALESCE(m.date_delivered, 0)", "COALESCE(m.date_edited, 0)",
	"COALESCE(m.item_type, 0)", "COALESCE(m.group_action_type, 0)",
	"m.group_title", "m.associated_message_type", "COALESCE(m.associated_message_guid, '')",
	"COALESCE(m.balloon_bundle_id, '')", "COALESCE(m.expressive_send_style_id, '')",
	"m.attributedBody", "m.payload_data", "m.message_summary_info",
}

func buildQuery(gen schemaGeneration, qc QueryContext) string {
	cols := append([]string(nil), projectedColumns...)

	switch gen {
	case schemaIOS16Newer:
		cols = append(cols,
			"COALESCE(m.associated_message_emoji, '')",
			"COALESCE(m.thread_originator_guid, '')",
			"COALESCE(m.thread_originator_part, '')",
			"cmj.chat_id",
			"(SELECT COUNT(*) FROM message_attachment_join maj WHERE maj.message_id = m.rowid)",
			"d.chat_id",
			"(SELECT COUNT(*) FROM message r WHERE r.thread_originator_guid = m.guid)",
		)
	case schemaIOS1415:
		cols = append(cols,
			"COALESCE(m.associated_message_emoji, '')",
			"COALESCE(m.thread_originator_guid, '')",
			"COALESCE(m.thread_originator_part, '')",
			"cmj.chat_id",
			"(SELECT COUNT(*) FROM message_attachment_join maj WHERE maj.message_id = m.rowid)",
			"NULL",
			"(SELECT COUNT(*) FROM message r WHERE r.thread_originator_guid = m.guid)",
		)
	default: // schemaIOS13Older
		cols = append(cols,
			"''", "''", "''",
			"cmj.chat_id",
			"(SELECT COUNT(*) FROM message_attachment_join maj WHERE maj.message_id = m.rowid)",
			"NULL",
			"0",
		)
	}

	query := "SELECT " + strings.Join(cols, ", ") + " FROM message m" +
		" LEFT JOIN chat_message_join cmj ON cmj.message_id = m.rowid"
	if gen == schemaIOS16Newer {
		query += " LEFT JOIN chat_recoverable_message_join d ON d.message_id = m.rowid"
	}

	if where := generateFilterStatement(qc, gen == schemaIOS16Newer); where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY m.date ASC"
	return query
}

// generateFilterStatement serializes a QueryContext into a SQL WHERE clause
// body, per spec.md §4.8: `m.date >= start`, `m.date <= end`,
// `c.chat_id IN (...)`, widened on the recoverable-join schema to
// `(c.chat_id IN (...) OR d.chat_id IN (...))` so recently deleted messages
// of the selected chats match too. An empty filter set yields "".
func generateFilterStatement(qc QueryContext, hasRecoverableJoin bool) string {
	var clauses []string
	if qc.Start != nil {
		clauses = append(clauses, fmt.Sprintf("m.date >= %d", *qc.Start))
	}
	if qc.End != nil {
		clauses = append(clauses, fmt.Sprintf("m.date <= %d", *qc.End))
	}
	if len(qc.SelectedChatIDs) > 0 {
		ids := intList(qc.SelectedChatIDs)
		if hasRecoverableJoin {
			clauses = append(clauses, fmt.Sprintf("(cmj.chat_id IN (%s) OR d.chat_id IN (%s))", ids, ids))
		} else {
			clauses = append(clauses, fmt.Sprintf("cmj.chat_id IN (%s)", ids))
		}
	}
	return strings.Join(clauses, " AND ")
}

func intList(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

// Callback is the per-row consumer driven by Stream; returning an error
// aborts the stream (cooperative cancellation, per spec.md §5).
type Callback func(Message) error

// Stream runs the schema-appropriate query and invokes cb for each row in
// m.date order, suppressing duplicate rowids produced by join
// amplification, per spec.md §4.8/§5.
func (c *ChatDB) Stream(ctx context.Context, qc QueryContext, cb Callback) error {
	query := buildQuery(c.generation, qc)
	rows, err := c.db.Query(ctx, query)
	if err != nil {
		return &QueryError{Cause: err}
	}
	defer rows.Close()

	lastRowID := int64(-1)
	for rows.Next() {
		msg, err := scanRow(rows, c.generation)
		if err != nil {
			return &CannotReadError{Cause: err}
		}
		if msg.RowID == lastRowID {
			continue
		}
		lastRowID = msg.RowID
		if err := cb(msg); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return &CannotReadError{Cause: err}
	}
	return nil
}

// GetCount returns the number of rows the equivalent Stream call would
// yield (pre-deduplication is not an issue here: COUNT(DISTINCT) matches
// Stream's last-rowid suppression for a date-ordered single pass).
func (c *ChatDB) GetCount(ctx context.Context, qc QueryContext) (int, error) {
	inner := buildQuery(c.generation, qc)
	var count int
	err := c.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(DISTINCT q.rowid) FROM (%s) q", inner)).Scan(&count)
	if err != nil {
		return 0, &QueryError{Cause: err}
	}
	return count, nil
}

func scanRow(rows *sql.Rows, gen schemaGeneration) (Message, error) {
	var m Message
	var otherHandle sql.NullInt64
	var shareDirection sql.NullBool
	var groupTitle sql.NullString
	var assocType sql.NullInt64
	var attributedBody, payloadData, summaryInfo []byte
	var emoji, threadGUID, threadPart sql.NullString
	var chatID sql.NullInt64
	var numAttachments int
	var deletedFrom sql.NullInt64
	var numReplies int

	dest := []any{
		&m.RowID, &m.GUID, &m.Text, &m.Service,
		&m.HandleID, &m.DestinationCallerID,
		&m.IsFromMe, &otherHandle, &m.ShareStatus,
		&shareDirection, &m.Date, &m.DateRead,
		&m.DateDelivered, &m.DateEdited,
		&m.ItemType, &m.GroupActionType,
		&groupTitle, &assocType, &m.AssociatedMessageGUID,
		&m.BalloonBundleID, &m.ExpressiveSendStyleID,
		&attributedBody, &payloadData, &summaryInfo,
		&emoji, &threadGUID, &threadPart,
		&chatID, &numAttachments, &deletedFrom, &numReplies,
	}
	if err := rows.Scan(dest...); err != nil {
		return Message{}, err
	}

	m.HasOtherHandle = otherHandle.Valid
	m.OtherHandle = otherHandle.Int64
	m.HasShareDirection = shareDirection.Valid
	m.ShareDirection = shareDirection.Bool
	m.HasGroupTitle = groupTitle.Valid
	m.GroupTitle = groupTitle.String
	m.HasAssociatedMessageType = assocType.Valid
	if assocType.Valid {
		m.AssociatedMessageType = int(assocType.Int64)
	}
	m.AssociatedMessageEmoji = emoji.String
	m.ThreadOriginatorGUID = threadGUID.String
	m.ThreadOriginatorPart = threadPart.String
	m.ChatID = chatID.Int64
	m.NumAttachments = numAttachments
	if deletedFrom.Valid {
		v := deletedFrom.Int64
		m.DeletedFrom = &v
	}
	m.NumReplies = numReplies

	m.rawAttributedBody = attributedBody
	m.rawPayloadData = payloadData
	m.rawSummaryInfo = summaryInfo

	var edits edited.Message
	if len(summaryInfo) > 0 {
		if root, err := plist.Decode(summaryInfo); err == nil {
			if edits, err = edited.Decode(root); err == nil {
				m.EditedParts = &edits
			}
		}
	}
	if res, ok := body.Assemble(body.Input{Text: m.Text, AttributedBody: attributedBody, Edits: edits,
		HasPayload: len(payloadData) > 0, BalloonBundleID: m.BalloonBundleID}); ok {
		m.Text, m.Components = res.Text, res.Components
	}
	return m, nil
}
