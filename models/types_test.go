// ABOUTME: Tests for model constants and validation helpers
// ABOUTME: Pins the six-stage pipeline and notification type sets
package models

import "testing"

func TestValidStage(t *testing.T) {
	// The canonical set is six stages: the four the board renders plus
	// negotiation/lost, which the tool schema and import paths use.
	valid := []string{"new", "qualified", "proposal", "negotiation", "won", "lost"}
	for _, s := range valid {
		if !ValidStage(s) {
			t.Errorf("expected stage %q to be valid", s)
		}
	}

	invalid := []string{"", "closed", "Won", "prospecting", "archived"}
	for _, s := range invalid {
		if ValidStage(s) {
			t.Errorf("expected stage %q to be invalid", s)
		}
	}
}

func TestStagesOrder(t *testing.T) {
	if len(Stages) != 6 {
		t.Fatalf("expected 6 stages, got %d", len(Stages))
	}
	if Stages[0] != StageNew || Stages[len(Stages)-1] != StageLost {
		t.Errorf("stages out of funnel order: %v", Stages)
	}
}

func TestValidNotificationType(t *testing.T) {
	for _, typ := range []string{NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError} {
		if !ValidNotificationType(typ) {
			t.Errorf("expected type %q to be valid", typ)
		}
	}
	if ValidNotificationType("urgent") {
		t.Error("expected unknown type to be invalid")
	}
}
