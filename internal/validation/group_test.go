package validation

import (
	"testing"

	"arbor/internal/models"
)

func validGroup() *models.Group {
	return &models.Group{
		Name:                        "Birders of the North",
		Shortname:                   "birders",
		Visibility:                  models.VisibilityServerPublic,
		DefaultMembershipModeration: models.ModerationUnmoderated,
		DefaultPostModeration:       models.ModerationUnmoderated,
		DefaultEventModeration:      models.ModerationUnmoderated,
		DefaultMembershipPermissions: models.PermissionSet{
			models.PermissionViewPosts,
		},
	}
}

func TestDeriveShortname(t *testing.T) {
	cases := []struct {
		name      string
		shortname string
		want      string
	}{
		{"Hello World!", "", "HelloWorld"},
		{"Birders", "", "Birders"},
		{"Anything", "bird-watchers!", "birdwatchers"},
		{"Anything", "already_clean", "already_clean"},
		{"a b c", "  ", "abc"},
	}
	for _, tc := range cases {
		group := &models.Group{Name: tc.name, Shortname: tc.shortname}
		if got := DeriveShortname(group); got != tc.want {
			t.Errorf("DeriveShortname(name=%q shortname=%q) = %q, want %q",
				tc.name, tc.shortname, got, tc.want)
		}
	}
}

func TestDeriveShortnameIdempotent(t *testing.T) {
	group := &models.Group{Name: "Hello World!", Shortname: "So Short!"}
	first := DeriveShortname(group)
	group.Shortname = first
	second := DeriveShortname(group)
	if first != second {
		t.Errorf("derivation not idempotent: %q then %q", first, second)
	}
}

func TestValidateGroup(t *testing.T) {
	if err := ValidateGroup(validGroup()); err != nil {
		t.Fatalf("valid group rejected: %v", err)
	}

	group := validGroup()
	group.Name = ""
	if err := ValidateGroup(group); err == nil || err.Code != "invalid_name" {
		t.Errorf("blank name: got %v, want invalid_name", err)
	}

	group = validGroup()
	group.Name = "!!!"
	group.Shortname = "???"
	if err := ValidateGroup(group); err == nil || err.Code != "blank_shortname" {
		t.Errorf("unsanitizable names: got %v, want blank_shortname", err)
	}

	group = validGroup()
	group.Visibility = models.VisibilityUnknown
	if err := ValidateGroup(group); err == nil || err.Code != "invalid_visibility" {
		t.Errorf("unknown visibility: got %v, want invalid_visibility", err)
	}

	group = validGroup()
	group.DefaultPostModeration = models.ModerationApproved
	if err := ValidateGroup(group); err == nil || err.Code != "invalid_default_post_moderation" {
		t.Errorf("decided default moderation: got %v, want invalid_default_post_moderation", err)
	}

	group = validGroup()
	group.DefaultMembershipPermissions = models.PermissionSet{models.Permission("fly")}
	if err := ValidateGroup(group); err == nil || err.Code != "invalid_permission_FLY" {
		t.Errorf("unrecognized permission: got %v, want invalid_permission_FLY", err)
	}
}

func TestValidateMembership(t *testing.T) {
	// Joining never fails on permission content or moderation state.
	membership := &models.Membership{
		UserID:          1,
		GroupID:         2,
		Permissions:     models.PermissionSet{models.Permission("nonsense")},
		GroupModeration: models.ModerationApproved,
		UserModeration:  models.ModerationRejected,
	}
	if err := ValidateMembership(membership, OperationCreate); err != nil {
		t.Errorf("create should skip permission checks: %v", err)
	}
	if err := ValidateMembership(membership, OperationDelete); err != nil {
		t.Errorf("delete should skip permission checks: %v", err)
	}

	// Updates enforce both.
	if err := ValidateMembership(membership, OperationUpdate); err == nil || err.Code != "invalid_permission_NONSENSE" {
		t.Errorf("update with bad permission: got %v", err)
	}

	membership.Permissions = models.PermissionSet{models.PermissionViewPosts}
	if err := ValidateMembership(membership, OperationUpdate); err == nil || err.Code != "invalid_group_moderation" {
		t.Errorf("update with decided group moderation: got %v", err)
	}

	membership.GroupModeration = models.ModerationPending
	if err := ValidateMembership(membership, OperationUpdate); err == nil || err.Code != "invalid_user_moderation" {
		t.Errorf("update with decided user moderation: got %v", err)
	}

	membership.UserModeration = models.ModerationUnmoderated
	if err := ValidateMembership(membership, OperationUpdate); err != nil {
		t.Errorf("open update rejected: %v", err)
	}

	// Ids validate on every operation.
	membership.UserID = 0
	if err := ValidateMembership(membership, OperationCreate); err == nil || err.Code != "invalid_user_id" {
		t.Errorf("zero user id: got %v", err)
	}
}

func TestValidateGroupPost(t *testing.T) {
	gp := &models.GroupPost{GroupID: 1, PostID: 2, UserID: 3}
	if err := ValidateGroupPost(gp); err != nil {
		t.Fatalf("valid group post rejected: %v", err)
	}
	gp.PostID = 0
	if err := ValidateGroupPost(gp); err == nil || err.Code != "invalid_post_id" {
		t.Errorf("zero post id: got %v", err)
	}
}
