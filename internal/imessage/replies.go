package imessage

import "context"

// Replies returns every message whose thread_originator_guid points back
// at m, ordered by date, per spec.md §4.8's thread-reply support. Unlike
// original_source's string-interpolated equivalent, the originator GUID is
// always passed as a bound parameter.
func (m Message) Replies(ctx context.Context, c *ChatDB) ([]Message, error) {
	if m.GUID == "" || c.generation == schemaIOS13Older {
		// Older schemas carry no thread_originator_guid column at all, so
		// no reply can ever be recorded against one.
		return nil, nil
	}

	rows, err := c.db.Query(ctx, repliesQuery(c.generation), m.GUID)
	if err != nil {
		return nil, &QueryError{Cause: err}
	}
	defer rows.Close()

	var out []Message
	lastRowID := int64(-1)
	for rows.Next() {
		reply, err := scanRow(rows, c.generation)
		if err != nil {
			return nil, &CannotReadError{Cause: err}
		}
		if reply.RowID == lastRowID {
			continue
		}
		lastRowID = reply.RowID
		out = append(out, reply)
	}
	if err := rows.Err(); err != nil {
		return nil, &CannotReadError{Cause: err}
	}
	return out, nil
}

// repliesQuery builds the same projection buildQuery uses, filtered by a
// bound thread_originator_guid parameter rather than an inlined value.
// Callers must not invoke this for schemaIOS13Older, which has no
// thread_originator_guid column to filter on.
func repliesQuery(gen schemaGeneration) string {
	base := buildQuery(gen, QueryContext{})
	return base[:len(base)-len(" ORDER BY m.date ASC")] + " WHERE m.thread_originator_guid = ? ORDER BY m.date ASC"
}
