// Package seed creates demo data for development and testing. It writes
// through the repositories so every denormalized counter is maintained
// the same way production traffic would.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"arbor/internal/models"
	"arbor/internal/repository"
)

// Options controls how much demo data is created.
type Options struct {
	Users  int
	Groups int
	Posts  int
}

// DefaultOptions is a small but connected data set.
var DefaultOptions = Options{Users: 25, Groups: 5, Posts: 60}

// Run populates the database with fake users, groups, posts, follows,
// and group posts.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	groupPostRepo := repository.NewGroupPostRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	followRepo := repository.NewFollowRepository(db)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		email := gofakeit.Email()
		user := &models.User{
			Username:     fmt.Sprintf("%s%d", gofakeit.Username(), i),
			PasswordHash: string(hash),
			Email:        &email,
			Bio:          gofakeit.Sentence(8),
			Permissions: models.PermissionSet{
				models.PermissionViewPosts,
				models.PermissionCreatePosts,
			},
			Visibility:              models.VisibilityServerPublic,
			DefaultFollowModeration: models.ModerationUnmoderated,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		users = append(users, user)
	}

	groups := make([]*models.Group, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		group := &models.Group{
			Name:        fmt.Sprintf("%s %d", gofakeit.HackerNoun(), i),
			Description: gofakeit.Paragraph(1, 2, 8, " "),
			Visibility:  models.VisibilityServerPublic,
			DefaultMembershipModeration: models.ModerationUnmoderated,
			DefaultPostModeration:       models.ModerationUnmoderated,
			DefaultEventModeration:      models.ModerationUnmoderated,
			DefaultMembershipPermissions: models.PermissionSet{
				models.PermissionViewPosts,
				models.PermissionCreatePosts,
			},
		}
		group.Shortname = fmt.Sprintf("group%d", i)
		if err := groupRepo.Create(ctx, group); err != nil {
			return err
		}
		groups = append(groups, group)
	}

	for _, user := range users {
		for _, group := range groups {
			if r.Intn(3) != 0 {
				continue
			}
			membership := &models.Membership{
				UserID:          user.ID,
				GroupID:         group.ID,
				Permissions:     group.DefaultMembershipPermissions,
				GroupModeration: models.ModerationUnmoderated,
				UserModeration:  models.ModerationUnmoderated,
			}
			if err := membershipRepo.Create(ctx, membership); err != nil {
				return err
			}
		}
	}

	posts := make([]*models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		author := users[r.Intn(len(users))]
		authorID := author.ID
		content := gofakeit.Paragraph(1, 3, 10, "\n")
		post := &models.Post{
			UserID:     &authorID,
			Title:      gofakeit.Sentence(6),
			Content:    &content,
			Context:    models.PostContextPost,
			Visibility: models.VisibilityServerPublic,
			Moderation: models.ModerationUnmoderated,
		}
		if err := postRepo.Create(ctx, post); err != nil {
			return err
		}
		posts = append(posts, post)
	}

	for _, post := range posts {
		if r.Intn(2) != 0 || len(groups) == 0 {
			continue
		}
		group := groups[r.Intn(len(groups))]
		proposerID := uint(0)
		if post.UserID != nil {
			proposerID = *post.UserID
		}
		groupPost := &models.GroupPost{
			GroupID:         group.ID,
			PostID:          post.ID,
			UserID:          proposerID,
			GroupModeration: models.ModerationUnmoderated,
		}
		if err := groupPostRepo.Create(ctx, groupPost); err != nil {
			return err
		}
	}

	for _, user := range users {
		target := users[r.Intn(len(users))]
		if target.ID == user.ID {
			continue
		}
		follow := &models.Follow{
			UserID:               user.ID,
			TargetUserID:         target.ID,
			TargetUserModeration: models.ModerationUnmoderated,
		}
		if err := followRepo.Create(ctx, follow); err != nil {
			return err
		}
	}

	slog.Info("seed complete",
		"users", len(users),
		"groups", len(groups),
		"posts", len(posts),
	)
	return nil
}
