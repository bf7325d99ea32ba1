package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"go-blog-api/internal/model"
)

type FollowRepository struct {
	db DBTX
}

func NewFollowRepository(db DBTX) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Follow(ctx context.Context, followerID string, followingID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO follows (follower_id, following_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (follower_id, following_id) DO NOTHING`,
		followerID, followingID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("follow user: %w", err)
	}
	return nil
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID string, followingID string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followingID)
	if err != nil {
		return fmt.Errorf("unfollow user: %w", err)
	}
	return nil
}

// PublicProfile resolves username together with follower counts and whether
// viewerID follows that user.
func (r *FollowRepository) PublicProfile(ctx context.Context, username string, viewerID string) (model.PublicProfile, error) {
	var p model.PublicProfile
	err := r.db.QueryRow(ctx,
		`SELECT u.id, u.first_name, u.last_name, u.username, u.profile_picture_url,
		        (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id),
		        (SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id),
		        EXISTS(SELECT 1 FROM follows f WHERE f.following_id = u.id AND f.follower_id = $2)
		 FROM users u WHERE lower(u.username) = lower($1)`,
		strings.TrimSpace(username), viewerID).
		Scan(&p.ID, &p.FirstName, &p.LastName, &p.Username, &p.ProfilePictureURL,
			&p.FollowersCount, &p.FollowingsCount, &p.IsFollowing)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.PublicProfile{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.PublicProfile{}, fmt.Errorf("load public profile: %w", err)
	}
	return p, nil
}

// Followers lists the users following userID.
func (r *FollowRepository) Followers(ctx context.Context, userID string, page model.Page) ([]model.UserSummary, int, error) {
	return r.listEdges(ctx,
		`SELECT u.id, u.first_name, u.last_name, u.username, u.profile_picture_url, COUNT(*) OVER()
		 FROM follows f JOIN users u ON u.id = f.follower_id
		 WHERE f.following_id = $1
		 ORDER BY f.created_at DESC
		 LIMIT $2 OFFSET $3`,
		`SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID, page)
}

// Followings lists the users userID follows.
func (r *FollowRepository) Followings(ctx context.Context, userID string, page model.Page) ([]model.UserSummary, int, error) {
	return r.listEdges(ctx,
		`SELECT u.id, u.first_name, u.last_name, u.username, u.profile_picture_url, COUNT(*) OVER()
		 FROM follows f JOIN users u ON u.id = f.following_id
		 WHERE f.follower_id = $1
		 ORDER BY f.created_at DESC
		 LIMIT $2 OFFSET $3`,
		`SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID, page)
}

func (r *FollowRepository) listEdges(ctx context.Context, query string, countQuery string, userID string, page model.Page) ([]model.UserSummary, int, error) {
	rows, err := r.db.Query(ctx, query, userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list follows: %w", err)
	}
	defer rows.Close()

	users := make([]model.UserSummary, 0)
	total := 0
	for rows.Next() {
		var u model.UserSummary
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.ProfilePictureURL, &total); err != nil {
			return nil, 0, fmt.Errorf("scan follow: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list follows: %w", err)
	}
	rows.Close()

	total, err = totalPastEnd(ctx, r.db, page, len(users), total, countQuery, userID)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
