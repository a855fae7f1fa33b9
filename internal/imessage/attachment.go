package imessage

import (
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

// Attachment is one row of the `attachment` table, per spec.md §6's
// External Interfaces table.
type Attachment struct {
	RowID           int64
	GUID            string
	Filename        string
	MimeType        string
	TransferName    string
	TotalBytes      int64
	IsSticker       bool
	HideAttachment  bool
	StickerUserInfo []byte
	AttributionInfo []byte
}

// AttachmentsForMessage returns every attachment joined to messageRowID, in
// join-table order (which, per spec.md §4.3/§4.6.3's positional
// correspondence rule, must line up with the Attachment components the
// body assembler produced for the same message).
func (c *ChatDB) AttachmentsForMessage(ctx context.Context, messageRowID int64) ([]Attachment, error) {
	rows, err := c.db.Query(ctx, `
		SELECT a.rowid, a.guid,
			COALESCE(a.filename, ''),
			COALESCE(a.mime_type, ''),
			COALESCE(a.transfer_name, ''),
			COALESCE(a.total_bytes, 0),
			COALESCE(a.is_sticker, 0),
			COALESCE(a.hide_attachment, 0),
			a.sticker_user_info,
			a.attribution_info
		FROM message_attachment_join maj
		JOIN attachment a ON a.rowid = maj.attachment_id
		WHERE maj.message_id = ?
		ORDER BY maj.rowid ASC`, messageRowID)
	if err != nil {
		return nil, &QueryError{Cause: err}
	}
	defer rows.Close()

	var out []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.RowID, &a.GUID, &a.Filename, &a.MimeType, &a.TransferName,
			&a.TotalBytes, &a.IsSticker, &a.HideAttachment, &a.StickerUserInfo, &a.AttributionInfo); err != nil {
			return nil, &CannotReadError{Cause: err}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &CannotReadError{Cause: err}
	}
	return out, nil
}

// ResolveContentType returns a's stored mime_type if set, otherwise sniffs
// the file on disk with mimetype.DetectFile — a real recurring problem
// with extensionless ".pluginPayloadAttachment" files that carry no usable
// mime_type column value.
func (a Attachment) ResolveContentType() string {
	if a.MimeType != "" {
		return a.MimeType
	}
	if a.Filename == "" {
		return ""
	}
	mime, err := mimetype.DetectFile(a.Filename)
	if err != nil {
		return ""
	}
	return mime.String()
}

// ResolveDimensions decodes the image header at a.Filename (including
// WebP, registered via the blank x/image/webp import) to fill in
// height/width when the typedstream dictionary omitted
// __kIMInlineMediaHeightAttributeName/Width, without decoding or
// transcoding the full image.
func (a Attachment) ResolveDimensions() (width, height int, ok bool) {
	if a.Filename == "" {
		return 0, 0, false
	}
	f, err := os.Open(a.Filename)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}
