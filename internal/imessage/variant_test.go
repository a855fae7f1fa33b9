package imessage

import (
	"testing"

	"github.com/lrhodin/imessage-export/internal/edited"
)

func TestCleanAssociatedGUIDIndexedForm(t *testing.T) {
	m := Message{AssociatedMessageGUID: "p:2/12345678-1234-1234-1234-123456789012"}
	index, guid, ok := m.CleanAssociatedGUID()
	if !ok {
		t.Fatalf("expected ok")
	}
	if index != 2 {
		t.Fatalf("expected index 2, got %d", index)
	}
	if guid != "12345678-1234-1234-1234-123456789012" {
		t.Fatalf("unexpected guid: %q", guid)
	}
}

func TestCleanAssociatedGUIDBalloonForm(t *testing.T) {
	m := Message{AssociatedMessageGUID: "bp:12345678-1234-1234-1234-123456789012"}
	index, guid, ok := m.CleanAssociatedGUID()
	if !ok {
		t.Fatalf("expected ok")
	}
	if index != 0 {
		t.Fatalf("expected index 0, got %d", index)
	}
	if guid != "12345678-1234-1234-1234-123456789012" {
		t.Fatalf("unexpected guid: %q", guid)
	}
}

func TestCleanAssociatedGUIDPlainForm(t *testing.T) {
	m := Message{AssociatedMessageGUID: "12345678-1234-1234-1234-123456789012"}
	_, guid, ok := m.CleanAssociatedGUID()
	if !ok || guid != "12345678-1234-1234-1234-123456789012" {
		t.Fatalf("unexpected result: guid=%q ok=%v", guid, ok)
	}
}

func TestClassifyEditedTakesPriority(t *testing.T) {
	m := Message{
		DateEdited:               1000,
		HasAssociatedMessageType: true,
		AssociatedMessageType:    2000,
	}
	v := m.Classify()
	if v.Kind != VariantEdited {
		t.Fatalf("expected VariantEdited, got %v", v.Kind)
	}
}

func TestClassifyTapbackAdded(t *testing.T) {
	m := Message{
		HasAssociatedMessageType: true,
		AssociatedMessageType:    2000,
		AssociatedMessageGUID:    "p:1/12345678-1234-1234-1234-123456789012",
	}
	v := m.Classify()
	if v.Kind != VariantTapback {
		t.Fatalf("expected VariantTapback, got %v", v.Kind)
	}
	if v.TapbackAction != TapbackAdded || v.Tapback.Kind != TapbackLoved {
		t.Fatalf("unexpected tapback: %+v", v)
	}
	if v.TapbackIndex != 1 {
		t.Fatalf("expected tapback index 1, got %d", v.TapbackIndex)
	}
}

func TestClassifyTapbackRemovedEmoji(t *testing.T) {
	m := Message{
		HasAssociatedMessageType: true,
		AssociatedMessageType:    3006,
		AssociatedMessageEmoji:   "\U0001F525",
	}
	v := m.Classify()
	if v.Kind != VariantTapback || v.TapbackAction != TapbackRemoved {
		t.Fatalf("unexpected variant: %+v", v)
	}
	if v.Tapback.Kind != TapbackEmoji || v.Tapback.Emoji != "\U0001F525" {
		t.Fatalf("unexpected tapback emoji payload: %+v", v.Tapback)
	}
}

func TestClassifyUnknownAssociatedType(t *testing.T) {
	m := Message{HasAssociatedMessageType: true, AssociatedMessageType: 9999}
	v := m.Classify()
	if v.Kind != VariantUnknown || v.UnknownCode != 9999 {
		t.Fatalf("unexpected variant: %+v", v)
	}
}

func TestClassifyNormal(t *testing.T) {
	m := Message{}
	if v := m.Classify(); v.Kind != VariantNormal {
		t.Fatalf("expected VariantNormal, got %v", v.Kind)
	}
}

func TestClassifySharePlay(t *testing.T) {
	m := Message{ItemType: 6}
	if v := m.Classify(); v.Kind != VariantSharePlay {
		t.Fatalf("expected VariantSharePlay, got %v", v.Kind)
	}
}

func TestGetAnnouncementGroupActionParticipantAdded(t *testing.T) {
	m := Message{ItemType: 1, GroupActionType: 0, HasOtherHandle: true, OtherHandle: 42}
	a, ok := m.GetAnnouncement()
	if !ok || a.Kind != AnnouncementGroupAction {
		t.Fatalf("expected group action announcement, got %+v ok=%v", a, ok)
	}
	if a.GroupAction.Kind != GroupActionParticipantAdded || a.GroupAction.HandleID != 42 {
		t.Fatalf("unexpected group action: %+v", a.GroupAction)
	}
}

func TestGetAnnouncementNameChange(t *testing.T) {
	m := Message{ItemType: 2, HasGroupTitle: true, GroupTitle: "New Name"}
	a, ok := m.GetAnnouncement()
	if !ok || a.GroupAction.Kind != GroupActionNameChange || a.GroupAction.NewGroupName != "New Name" {
		t.Fatalf("unexpected announcement: %+v ok=%v", a, ok)
	}
}

func TestGetAnnouncementFullyUnsent(t *testing.T) {
	m := Message{
		EditedParts: &edited.Message{
			Parts: []edited.Part{{Status: edited.StatusUnsent}},
		},
	}
	a, ok := m.GetAnnouncement()
	if !ok || a.Kind != AnnouncementFullyUnsent {
		t.Fatalf("unexpected announcement: %+v ok=%v", a, ok)
	}
}

func TestGetAnnouncementKeptAudioMessage(t *testing.T) {
	m := Message{ItemType: 5}
	a, ok := m.GetAnnouncement()
	if !ok || a.Kind != AnnouncementAudioMessageKept {
		t.Fatalf("unexpected announcement: %+v ok=%v", a, ok)
	}
}

func TestGetAnnouncementNone(t *testing.T) {
	m := Message{}
	if _, ok := m.GetAnnouncement(); ok {
		t.Fatalf("expected no announcement")
	}
}

func TestGetExpressiveBubble(t *testing.T) {
	m := Message{ExpressiveSendStyleID: "com.apple.MobileSMS.expressivesend.impact"}
	e := m.GetExpressive()
	if e.Kind != ExpressiveBubble || e.Bubble != BubbleEffectSlam {
		t.Fatalf("unexpected expressive: %+v", e)
	}
}

func TestGetExpressiveScreen(t *testing.T) {
	m := Message{ExpressiveSendStyleID: "com.apple.messages.effect.CKHappyBirthdayEffect"}
	e := m.GetExpressive()
	if e.Kind != ExpressiveScreen || e.Screen != ScreenEffectBalloons {
		t.Fatalf("unexpected expressive: %+v", e)
	}
}

func TestGetExpressiveNone(t *testing.T) {
	m := Message{}
	if e := m.GetExpressive(); e.Kind != ExpressiveNone {
		t.Fatalf("expected ExpressiveNone, got %+v", e)
	}
}

func TestIsFromMeEffectiveOverride(t *testing.T) {
	m := Message{
		IsFromMe:          false,
		HasOtherHandle:    true,
		OtherHandle:       7,
		HasShareDirection: true,
		ShareDirection:    false,
	}
	if !m.IsFromMeEffective() {
		t.Fatalf("expected effective from-me override to apply")
	}
}
