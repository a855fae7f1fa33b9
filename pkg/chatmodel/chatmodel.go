// Package chatmodel re-exports the small set of types an external writer
// needs from internal/imessage, the same way the teacher keeps its public
// bridge surface under pkg/ rather than reaching into internal/connector
// directly.
package chatmodel

import "github.com/lrhodin/imessage-export/internal/imessage"

type (
	Message          = imessage.Message
	Chat             = imessage.Chat
	ChatProperties   = imessage.ChatProperties
	Variant          = imessage.Variant
	VariantKind      = imessage.VariantKind
	Tapback          = imessage.Tapback
	TapbackKind      = imessage.TapbackKind
	TapbackAction    = imessage.TapbackAction
	GroupAction      = imessage.GroupAction
	GroupActionKind  = imessage.GroupActionKind
	Announcement     = imessage.Announcement
	AnnouncementKind = imessage.AnnouncementKind
	Expressive       = imessage.Expressive
	ExpressiveKind   = imessage.ExpressiveKind
	BubbleEffect     = imessage.BubbleEffect
	ScreenEffect     = imessage.ScreenEffect
	QueryContext     = imessage.QueryContext
	DiagnosticReport = imessage.DiagnosticReport
)

const (
	VariantNormal    = imessage.VariantNormal
	VariantEdited    = imessage.VariantEdited
	VariantSharePlay = imessage.VariantSharePlay
	VariantApp       = imessage.VariantApp
	VariantTapback   = imessage.VariantTapback
	VariantUnknown   = imessage.VariantUnknown
)
