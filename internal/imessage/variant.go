package imessage

import (
	"strconv"
	"strings"

	"github.com/lrhodin/imessage-export/internal/balloon"
)

// CleanAssociatedGUID parses a tapback's associated_message_guid, per
// spec.md §4.7: `p:<index>/<guid36>` yields (index, guid); `bp:<guid36>`
// yields (0, guid); anything else is the guid itself with index 0.
func (m Message) CleanAssociatedGUID() (int, string, bool) {
	guid := m.AssociatedMessageGUID
	if guid == "" {
		return 0, "", false
	}
	switch {
	case strings.HasPrefix(guid, "p:"):
		parts := strings.SplitN(guid, "/", 2)
		if len(parts) != 2 {
			return 0, "", false
		}
		index, err := strconv.Atoi(strings.TrimPrefix(parts[0], "p:"))
		if err != nil {
			index = 0
		}
		if len(parts[1]) < 36 {
			return 0, "", false
		}
		return index, parts[1][:36], true
	case strings.HasPrefix(guid, "bp:"):
		rest := guid[len("bp:"):]
		if len(rest) < 36 {
			return 0, "", false
		}
		return 0, rest[:36], true
	default:
		if len(guid) < 36 {
			return 0, "", false
		}
		return 0, guid[:36], true
	}
}

func (m Message) tapbackIndex() int {
	index, _, ok := m.CleanAssociatedGUID()
	if !ok {
		return 0
	}
	return index
}

// Classify determines the Variant of a message row, per spec.md §4.7's
// ordered classification rules.
func (m Message) Classify() Variant {
	if m.isEdited() {
		return Variant{Kind: VariantEdited}
	}

	if m.HasAssociatedMessageType {
		switch t := m.AssociatedMessageType; t {
		case 0, 2, 3:
			bundle := balloon.ParseBundleID(m.BalloonBundleID)
			if bundle == "" {
				return Variant{Kind: VariantNormal}
			}
			kind := balloon.KindFromBundleID(bundle)
			if kind == balloon.KindGeneric {
				return Variant{Kind: VariantApp, ApplicationBundle: bundle}
			}
			return Variant{Kind: VariantApp, BalloonKind: kind}
		case 1000:
			return m.tapbackVariant(TapbackAdded, Tapback{Kind: TapbackSticker})
		case 2000:
			return m.tapbackVariant(TapbackAdded, Tapback{Kind: TapbackLoved})
		case 2001:
			return m.tapbackVariant(TapbackAdded, Tapback{Kind: TapbackLiked})
		case 2002:
			return m.tapbackVariant(TapbackAdded, Tapback{Kind: TapbackDisliked})
		case 2003:
			return m.tapbackVariant(TapbackAdded, Tapback{Kind: TapbackLaughed})
		case 2004:
			return m.tapbackVariant(TapbackAdded, Tapback{Kind: TapbackEmphasized})
		case 2005:
			return m.tapbackVariant(TapbackAdded, Tapback{Kind: TapbackQuestioned})
		case 2006:
			return m.tapbackVariant(TapbackAdded, Tapback{Kind: TapbackEmoji, Emoji: m.AssociatedMessageEmoji})
		case 2007:
			return m.tapbackVariant(TapbackAdded, Tapback{Kind: TapbackSticker})
		case 3000:
			return m.tapbackVariant(TapbackRemoved, Tapback{Kind: TapbackLoved})
		case 3001:
			return m.tapbackVariant(TapbackRemoved, Tapback{Kind: TapbackLiked})
		case 3002:
			return m.tapbackVariant(TapbackRemoved, Tapback{Kind: TapbackDisliked})
		case 3003:
			return m.tapbackVariant(TapbackRemoved, Tapback{Kind: TapbackLaughed})
		case 3004:
			return m.tapbackVariant(TapbackRemoved, Tapback{Kind: TapbackEmphasized})
		case 3005:
			return m.tapbackVariant(TapbackRemoved, Tapback{Kind: TapbackQuestioned})
		case 3006:
			return m.tapbackVariant(TapbackRemoved, Tapback{Kind: TapbackEmoji, Emoji: m.AssociatedMessageEmoji})
		case 3007:
			return m.tapbackVariant(TapbackRemoved, Tapback{Kind: TapbackSticker})
		default:
			return Variant{Kind: VariantUnknown, UnknownCode: t}
		}
	}

	if m.isShareplay() {
		return Variant{Kind: VariantSharePlay}
	}
	return Variant{Kind: VariantNormal}
}

func (m Message) tapbackVariant(action TapbackAction, t Tapback) Variant {
	return Variant{Kind: VariantTapback, TapbackIndex: m.tapbackIndex(), TapbackAction: action, Tapback: t}
}

// groupActionFromMessage mirrors original_source's GroupAction::from_message:
// (item_type, group_action_type, other_handle, group_title).
func (m Message) groupActionFromMessage() (GroupAction, bool) {
	switch {
	case m.ItemType == 1 && m.GroupActionType == 0 && m.HasOtherHandle:
		return GroupAction{Kind: GroupActionParticipantAdded, HandleID: m.OtherHandle}, true
	case m.ItemType == 1 && m.GroupActionType == 1 && m.HasOtherHandle:
		return GroupAction{Kind: GroupActionParticipantRemoved, HandleID: m.OtherHandle}, true
	case m.ItemType == 2 && m.HasGroupTitle:
		return GroupAction{Kind: GroupActionNameChange, NewGroupName: m.GroupTitle}, true
	case m.ItemType == 3 && m.GroupActionType == 0:
		return GroupAction{Kind: GroupActionParticipantLeft}, true
	case m.ItemType == 3 && m.GroupActionType == 1:
		return GroupAction{Kind: GroupActionIconChanged}, true
	case m.ItemType == 3 && m.GroupActionType == 2:
		return GroupAction{Kind: GroupActionIconRemoved}, true
	default:
		return GroupAction{}, false
	}
}

// GetAnnouncement determines the Announcement a message carries, if any,
// per spec.md §4.7.
func (m Message) GetAnnouncement() (Announcement, bool) {
	if action, ok := m.groupActionFromMessage(); ok {
		return Announcement{Kind: AnnouncementGroupAction, GroupAction: action}, true
	}
	if m.isFullyUnsent() {
		return Announcement{Kind: AnnouncementFullyUnsent}, true
	}
	if m.isKeptAudioMessage() {
		return Announcement{Kind: AnnouncementAudioMessageKept}, true
	}
	if m.ItemType != 0 && !m.isShareplay() {
		return Announcement{Kind: AnnouncementUnknown, UnknownCode: m.ItemType}, true
	}
	return Announcement{}, false
}

var expressiveBubbleIDs = map[string]BubbleEffect{
	"com.apple.MobileSMS.expressivesend.gentle":       BubbleEffectGentle,
	"com.apple.MobileSMS.expressivesend.impact":       BubbleEffectSlam,
	"com.apple.MobileSMS.expressivesend.loud":         BubbleEffectLoud,
	"com.apple.MobileSMS.expressivesend.invisibleink": BubbleEffectInvisibleInk,
}

var expressiveScreenIDs = map[string]ScreenEffect{
	"com.apple.messages.effect.CKConfettiEffect":      ScreenEffectConfetti,
	"com.apple.messages.effect.CKEchoEffect":          ScreenEffectEcho,
	"com.apple.messages.effect.CKFireworksEffect":     ScreenEffectFireworks,
	"com.apple.messages.effect.CKHappyBirthdayEffect": ScreenEffectBalloons,
	"com.apple.messages.effect.CKHeartEffect":         ScreenEffectHeart,
	"com.apple.messages.effect.CKLasersEffect":        ScreenEffectLasers,
	"com.apple.messages.effect.CKShootingStarEffect":  ScreenEffectShootingStar,
	"com.apple.messages.effect.CKSparklesEffect":      ScreenEffectSparkles,
	"com.apple.messages.effect.CKSpotlightEffect":     ScreenEffectSpotlight,
}

// GetExpressive classifies expressive_send_style_id against the fixed
// bundle-effect/screen-effect id tables, per spec.md §4.7.
func (m Message) GetExpressive() Expressive {
	if m.ExpressiveSendStyleID == "" {
		return Expressive{Kind: ExpressiveNone}
	}
	if b, ok := expressiveBubbleIDs[m.ExpressiveSendStyleID]; ok {
		return Expressive{Kind: ExpressiveBubble, Bubble: b}
	}
	if s, ok := expressiveScreenIDs[m.ExpressiveSendStyleID]; ok {
		return Expressive{Kind: ExpressiveScreen, Screen: s}
	}
	return Expressive{Kind: ExpressiveNone}
}
