package handlers

import (
	"context"
	"time"

	"github.com/alanraiden/novelweb/models"
	"github.com/alanraiden/novelweb/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The content graph stores cross-document references as ids; these summary
// types are what handlers substitute for the ids when returning populated
// responses, mirroring what the SPA renders.

type UserSummary struct {
	ID        primitive.ObjectID `json:"id"`
	Name      string             `json:"name"`
	Email     string             `json:"email"`
	Role      string             `json:"role"`
	UserImage string             `json:"userimage"`
}

type ChapterSummary struct {
	ID            primitive.ObjectID `json:"id"`
	ChapterNumber int                `json:"chapterNumber"`
	ChapterName   string             `json:"chapterName"`
}

type NovelSummary struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
}

type PostSummary struct {
	ID      primitive.ObjectID `json:"id"`
	Title   string             `json:"title"`
	Content string             `json:"content"`
}

type ReviewSummary struct {
	ID      primitive.ObjectID `json:"id"`
	Title   string             `json:"reviewTitle"`
	Content string             `json:"reviewContent"`
}

type ReplyResponse struct {
	ID        primitive.ObjectID   `json:"id"`
	Content   string               `json:"content"`
	User      *UserSummary         `json:"user,omitempty"`
	Likes     []primitive.ObjectID `json:"likes"`
	CreatedAt time.Time            `json:"createdAt"`
}

type ReviewResponse struct {
	ID        primitive.ObjectID   `json:"id"`
	User      *UserSummary         `json:"user,omitempty"`
	NovelID   primitive.ObjectID   `json:"novel"`
	Title     string               `json:"reviewTitle"`
	Content   string               `json:"reviewContent"`
	Likes     []primitive.ObjectID `json:"likes"`
	Replies   []ReplyResponse      `json:"replies"`
	CreatedAt time.Time            `json:"createdAt"`
}

func summarizeUser(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		UserImage: u.UserImage,
	}
}

// userSummaryMap batch-loads the given users and indexes their summaries
// by id, so list responses populate user refs with one query.
func userSummaryMap(ctx context.Context, db *store.DB, ids []primitive.ObjectID) (map[primitive.ObjectID]*UserSummary, error) {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	unique := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	users, err := db.UsersByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	out := make(map[primitive.ObjectID]*UserSummary, len(users))
	for i := range users {
		out[users[i].ID] = summarizeUser(&users[i])
	}
	return out, nil
}

// populateReviews resolves the user refs on reviews and their embedded
// replies into summaries.
func populateReviews(ctx context.Context, db *store.DB, reviews []models.Review) ([]ReviewResponse, error) {
	var userIDs []primitive.ObjectID
	for _, rev := range reviews {
		userIDs = append(userIDs, rev.UserID)
		for _, rep := range rev.Replies {
			userIDs = append(userIDs, rep.UserID)
		}
	}
	users, err := userSummaryMap(ctx, db, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ReviewResponse, 0, len(reviews))
	for _, rev := range reviews {
		replies := make([]ReplyResponse, 0, len(rev.Replies))
		for _, rep := range rev.Replies {
			replies = append(replies, ReplyResponse{
				ID:        rep.ID,
				Content:   rep.Content,
				User:      users[rep.UserID],
				Likes:     rep.Likes,
				CreatedAt: rep.CreatedAt,
			})
		}
		out = append(out, ReviewResponse{
			ID:        rev.ID,
			User:      users[rev.UserID],
			NovelID:   rev.NovelID,
			Title:     rev.Title,
			Content:   rev.Content,
			Likes:     rev.Likes,
			Replies:   replies,
			CreatedAt: rev.CreatedAt,
		})
	}
	return out, nil
}

func populateReview(ctx context.Context, db *store.DB, review *models.Review) (*ReviewResponse, error) {
	out, err := populateReviews(ctx, db, []models.Review{*review})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}
