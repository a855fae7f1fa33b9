// Package imessage implements C7 (row model and variant/announcement/
// expressive classification) and C8 (the schema-cascading streaming query
// layer) of the message body pipeline, per spec.md §4.7-4.8.
package imessage

import (
	"github.com/lrhodin/imessage-export/internal/balloon"
	"github.com/lrhodin/imessage-export/internal/body"
	"github.com/lrhodin/imessage-export/internal/edited"
)

// Message is one row of the `message` table plus its decoded outputs, per
// spec.md §3.
type Message struct {
	RowID int64
	GUID  string

	Text string

	// Temporal fields, nanoseconds since Apple epoch; DateEdited == 0 means
	// unset.
	Date          int64
	DateRead      int64
	DateDelivered int64
	DateEdited    int64

	Service               string
	HandleID              int64
	DestinationCallerID   string
	IsFromMe              bool
	OtherHandle           int64
	HasOtherHandle        bool
	ShareStatus           bool
	ShareDirection        bool
	HasShareDirection     bool

	ItemType        int
	GroupActionType int
	GroupTitle      string
	HasGroupTitle   bool

	AssociatedMessageType    int
	HasAssociatedMessageType bool
	AssociatedMessageGUID    string
	BalloonBundleID          string
	ExpressiveSendStyleID    string
	AssociatedMessageEmoji   string

	ThreadOriginatorGUID string
	ThreadOriginatorPart string

	// Derived columns, always projected (NULL/0 on older schemas).
	ChatID         int64
	NumAttachments int
	DeletedFrom    *int64
	NumReplies     int

	// Decoded outputs, populated by scanRow through edited.Decode and
	// body.Assemble.
	Components  []body.Component
	EditedParts *edited.Message

	// Raw column blobs, consumed by scanRow's decoding and not exported directly.
	rawAttributedBody []byte
	rawPayloadData    []byte
	rawSummaryInfo    []byte
}

// AttributedBody returns the raw attributedBody column blob, if any.
func (m Message) AttributedBody() []byte { return m.rawAttributedBody }

// PayloadData returns the raw payload_data column blob, if any.
func (m Message) PayloadData() []byte { return m.rawPayloadData }

// SummaryInfo returns the raw message_summary_info column blob, if any.
func (m Message) SummaryInfo() []byte { return m.rawSummaryInfo }

// IsFromMeEffective applies the same "other_handle + share_direction"
// override the teacher's source uses for messages relayed through a
// linked device, per original_source's Message::is_from_me.
func (m Message) IsFromMeEffective() bool {
	if m.HasOtherHandle && m.HasShareDirection {
		return m.IsFromMe || (m.OtherHandle != 0 && !m.ShareDirection)
	}
	return m.IsFromMe
}

func (m Message) isEdited() bool         { return m.DateEdited != 0 }
func (m Message) isFullyUnsent() bool {
	if m.EditedParts == nil || len(m.EditedParts.Parts) == 0 {
		return false
	}
	for _, p := range m.EditedParts.Parts {
		if p.Status != edited.StatusUnsent {
			return false
		}
	}
	return true
}
func (m Message) isKeptAudioMessage() bool { return m.ItemType == 5 }
func (m Message) isShareplay() bool        { return m.ItemType == 6 }
func (m Message) HasAttachments() bool     { return m.NumAttachments > 0 }
func (m Message) HasReplies() bool         { return m.NumReplies > 0 }
func (m Message) IsDeleted() bool          { return m.DeletedFrom != nil }

// TapbackAction distinguishes a tapback being added or removed.
type TapbackAction int

const (
	TapbackAdded TapbackAction = iota
	TapbackRemoved
)

// Tapback is the reaction kind carried by a Tapback variant.
type Tapback struct {
	Kind  TapbackKind
	Emoji string // populated only when Kind == TapbackEmoji
}

type TapbackKind int

const (
	TapbackLoved TapbackKind = iota
	TapbackLiked
	TapbackDisliked
	TapbackLaughed
	TapbackEmphasized
	TapbackQuestioned
	TapbackEmoji
	TapbackSticker
)

// VariantKind discriminates the Variant sum type.
type VariantKind int

const (
	VariantNormal VariantKind = iota
	VariantEdited
	VariantSharePlay
	VariantApp
	VariantTapback
	VariantUnknown
)

// Variant is the classification of one message row, per spec.md §4.7.
type Variant struct {
	Kind VariantKind

	// Populated when Kind == VariantApp.
	BalloonKind       balloon.Kind
	ApplicationBundle string // set instead of BalloonKind when the bundle id is unrecognized

	// Populated when Kind == VariantTapback.
	TapbackIndex  int
	TapbackAction TapbackAction
	Tapback       Tapback

	// Populated when Kind == VariantUnknown.
	UnknownCode int
}

// GroupActionKind discriminates the GroupAction sum type.
type GroupActionKind int

const (
	GroupActionParticipantAdded GroupActionKind = iota
	GroupActionParticipantRemoved
	GroupActionNameChange
	GroupActionParticipantLeft
	GroupActionIconChanged
	GroupActionIconRemoved
)

// GroupAction is one structural change to a group chat's membership or
// metadata, derived from item_type/group_action_type.
type GroupAction struct {
	Kind         GroupActionKind
	HandleID     int64 // populated for ParticipantAdded/Removed
	NewGroupName string // populated for NameChange
}

// AnnouncementKind discriminates the Announcement sum type.
type AnnouncementKind int

const (
	AnnouncementGroupAction AnnouncementKind = iota
	AnnouncementFullyUnsent
	AnnouncementAudioMessageKept
	AnnouncementUnknown
)

// Announcement is a non-content system event surfaced inline in a
// conversation, derived from item_type/group_action_type.
type Announcement struct {
	Kind        AnnouncementKind
	GroupAction GroupAction
	UnknownCode int
}

// BubbleEffect is a per-message "expressive send" bubble animation.
type BubbleEffect int

const (
	BubbleEffectGentle BubbleEffect = iota
	BubbleEffectSlam
	BubbleEffectLoud
	BubbleEffectInvisibleInk
)

// ScreenEffect is a full-screen "expressive send" effect.
type ScreenEffect int

const (
	ScreenEffectConfetti ScreenEffect = iota
	ScreenEffectEcho
	ScreenEffectFireworks
	ScreenEffectBalloons
	ScreenEffectHeart
	ScreenEffectLasers
	ScreenEffectShootingStar
	ScreenEffectSparkles
	ScreenEffectSpotlight
)

// ExpressiveKind discriminates the Expressive sum type.
type ExpressiveKind int

const (
	ExpressiveNone ExpressiveKind = iota
	ExpressiveBubble
	ExpressiveScreen
)

// Expressive is the "expressive send" effect attached to a message, if any.
type Expressive struct {
	Kind   ExpressiveKind
	Bubble BubbleEffect
	Screen ScreenEffect
}
