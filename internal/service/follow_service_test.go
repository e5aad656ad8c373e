package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbor/internal/models"
)

func TestCreateFollowSeedsTargetPolicy(t *testing.T) {
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, DefaultFollowModeration: models.ModerationPending}, nil
	}
	follows := noopFollowRepo()
	var created *models.Follow
	follows.createFn = func(_ context.Context, f *models.Follow) error {
		created = f
		return nil
	}
	svc := NewFollowService(follows, users)

	follow, err := svc.CreateFollow(context.Background(), writer(), 9)
	require.NoError(t, err)
	require.NotNil(t, created)

	// A locked-down profile turns the follow into a pending request.
	assert.Equal(t, uint(1), follow.UserID)
	assert.Equal(t, uint(9), follow.TargetUserID)
	assert.Equal(t, models.ModerationPending, follow.TargetUserModeration)
}

func TestCreateFollowSelf(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), noopUserRepo())
	_, err := svc.CreateFollow(context.Background(), writer(), 1)
	require.Error(t, err)
	assert.Equal(t, "user_cannot_follow_themselves", appErrCode(t, err))
}

func TestCreateFollowDuplicate(t *testing.T) {
	follows := noopFollowRepo()
	follows.getFn = func(_ context.Context, userID, targetUserID uint) (*models.Follow, error) {
		return &models.Follow{UserID: userID, TargetUserID: targetUserID}, nil
	}
	svc := NewFollowService(follows, noopUserRepo())

	_, err := svc.CreateFollow(context.Background(), writer(), 9)
	require.Error(t, err)
	assert.Equal(t, "follow_already_exists", appErrCode(t, err))
}

func TestDecideFollowTargetOnly(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), noopUserRepo())

	// The follower cannot approve their own request.
	_, err := svc.DecideFollow(context.Background(), &Actor{UserID: 2}, 2, 9, models.ModerationApproved)
	require.Error(t, err)
	assert.Equal(t, "permission_denied", appErrCode(t, err))

	// The target decides.
	follow, err := svc.DecideFollow(context.Background(), &Actor{UserID: 9}, 2, 9, models.ModerationApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationApproved, follow.TargetUserModeration)

	// So does a server-level user moderator.
	follow, err = svc.DecideFollow(context.Background(), moderator(), 2, 9, models.ModerationRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ModerationRejected, follow.TargetUserModeration)
}

func TestDecideFollowRequiresTerminalState(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), noopUserRepo())
	_, err := svc.DecideFollow(context.Background(), &Actor{UserID: 9}, 2, 9, models.ModerationPending)
	require.Error(t, err)
	assert.Equal(t, "invalid_target_user_moderation", appErrCode(t, err))
}

func TestDeleteFollowEitherSide(t *testing.T) {
	svc := NewFollowService(noopFollowRepo(), noopUserRepo())

	require.NoError(t, svc.DeleteFollow(context.Background(), &Actor{UserID: 2}, 2, 9))
	require.NoError(t, svc.DeleteFollow(context.Background(), &Actor{UserID: 9}, 2, 9))

	err := svc.DeleteFollow(context.Background(), &Actor{UserID: 3}, 2, 9)
	require.Error(t, err)
	assert.Equal(t, "permission_denied", appErrCode(t, err))
}

func TestGetFollowParticipantsOnly(t *testing.T) {
	follows := noopFollowRepo()
	follows.getFn = func(_ context.Context, userID, targetUserID uint) (*models.Follow, error) {
		return &models.Follow{UserID: userID, TargetUserID: targetUserID}, nil
	}
	svc := NewFollowService(follows, noopUserRepo())

	_, err := svc.GetFollow(context.Background(), &Actor{UserID: 3}, 2, 9)
	require.Error(t, err)
	assert.Equal(t, "permission_denied", appErrCode(t, err))

	_, err = svc.GetFollow(context.Background(), &Actor{UserID: 2}, 2, 9)
	assert.NoError(t, err)
}
