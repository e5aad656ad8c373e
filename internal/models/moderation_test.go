package models

import "testing"

func TestModerationPassing(t *testing.T) {
	cases := []struct {
		state Moderation
		want  bool
	}{
		{ModerationUnmoderated, true},
		{ModerationApproved, true},
		{ModerationPending, false},
		{ModerationRejected, false},
		{ModerationUnknown, false},
	}
	for _, tc := range cases {
		if got := tc.state.Passing(); got != tc.want {
			t.Errorf("Passing(%s) = %v, want %v", tc.state, got, tc.want)
		}
	}
}

func TestModerationOpenAndDecided(t *testing.T) {
	if !ModerationUnmoderated.Open() || !ModerationPending.Open() {
		t.Error("unmoderated and pending should be open")
	}
	if ModerationApproved.Open() || ModerationRejected.Open() {
		t.Error("approved and rejected should not be open")
	}
	if !ModerationApproved.Decided() || !ModerationRejected.Decided() {
		t.Error("approved and rejected should be decided")
	}
	if ModerationUnmoderated.Decided() || ModerationPending.Decided() || ModerationUnknown.Decided() {
		t.Error("only approved and rejected should be decided")
	}
}

func TestParseModeration(t *testing.T) {
	for _, valid := range []string{"unknown", "unmoderated", "pending", "approved", "rejected"} {
		got, err := ParseModeration(valid)
		if err != nil {
			t.Fatalf("ParseModeration(%q) returned error: %v", valid, err)
		}
		if string(got) != valid {
			t.Errorf("ParseModeration(%q) = %s", valid, got)
		}
	}
	if _, err := ParseModeration("banana"); err == nil {
		t.Error("expected error for unrecognized moderation")
	}
	if _, err := ParseModeration(""); err == nil {
		t.Error("expected error for empty moderation")
	}
}

func TestMembershipPassingRequiresBothSides(t *testing.T) {
	m := &Membership{GroupModeration: ModerationApproved, UserModeration: ModerationPending}
	if m.Passing() {
		t.Error("membership with pending user side should not pass")
	}
	m.UserModeration = ModerationUnmoderated
	if !m.Passing() {
		t.Error("membership with both sides passing should pass")
	}
	m.GroupModeration = ModerationRejected
	if m.Passing() {
		t.Error("membership with rejected group side should not pass")
	}
}
