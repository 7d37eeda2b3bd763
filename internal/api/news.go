package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/newsroomhq/newsroom/internal/errors"
)

// News is a published article
type News struct {
	ID     int64     `json:"id"`
	Title  string    `json:"title"`
	Text   string    `json:"text"`
	Author string    `json:"author"`
	Time   time.Time `json:"time"`
}

// NewsPage is one page of the article listing
type NewsPage struct {
	News       []News `json:"news"`
	TotalPages int    `json:"totalPages"`
}

// Comment is a reader comment on an article
type Comment struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	Likes     int    `json:"likes"`
	LikedByMe bool   `json:"likedByMe"`
}

// CommentPage is one page of an article's comments
type CommentPage struct {
	Comments []Comment `json:"comments"`
}

// NewsDraft carries the editable article fields
type NewsDraft struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// CommentDraft carries a comment body
type CommentDraft struct {
	Text string `json:"text"`
}

// ListNews fetches one page of articles
func (c *Client) ListNews(ctx context.Context, page, size int) (*NewsPage, error) {
	var result NewsPage
	path := fmt.Sprintf("/news?page=%d&size=%d", page, size)
	if err := c.call(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetNews fetches one article; a 404 means it has been deleted
func (c *Client) GetNews(ctx context.Context, id int64) (*News, error) {
	var n News
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("/news/%d", id), nil, &n)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNewsNotFoundError(id)
		}
		return nil, err
	}
	return &n, nil
}

// CreateNews publishes a new article
func (c *Client) CreateNews(ctx context.Context, draft NewsDraft) (*News, error) {
	var n News
	if err := c.call(ctx, http.MethodPost, "/news", draft, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNews saves edits to an existing article
func (c *Client) UpdateNews(ctx context.Context, id int64, draft NewsDraft) (*News, error) {
	var n News
	err := c.call(ctx, http.MethodPut, fmt.Sprintf("/news/%d", id), draft, &n)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNewsNotFoundError(id)
		}
		return nil, err
	}
	return &n, nil
}

// DeleteNews removes an article
func (c *Client) DeleteNews(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/news/%d", id), nil, nil)
}

// ListComments fetches one page of an article's comments
func (c *Client) ListComments(ctx context.Context, newsID int64, page, size int) (*CommentPage, error) {
	var result CommentPage
	path := fmt.Sprintf("/news/%d/comments?page=%d&size=%d", newsID, page, size)
	err := c.call(ctx, http.MethodGet, path, nil, &result)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewNewsNotFoundError(newsID)
		}
		return nil, err
	}
	return &result, nil
}

// AddComment posts a new comment on an article
func (c *Client) AddComment(ctx context.Context, newsID int64, text string) error {
	return c.commentCall(ctx, http.MethodPost, fmt.Sprintf("/news/%d/comments", newsID), newsID, CommentDraft{Text: text})
}

// UpdateComment saves edits to an existing comment
func (c *Client) UpdateComment(ctx context.Context, newsID, commentID int64, text string) error {
	path := fmt.Sprintf("/news/%d/comments/%d", newsID, commentID)
	return c.commentCall(ctx, http.MethodPut, path, newsID, CommentDraft{Text: text})
}

// DeleteComment removes a comment
func (c *Client) DeleteComment(ctx context.Context, newsID, commentID int64) error {
	path := fmt.Sprintf("/news/%d/comments/%d", newsID, commentID)
	return c.commentCall(ctx, http.MethodDelete, path, newsID, nil)
}

// LikeComment records a like on a comment
func (c *Client) LikeComment(ctx context.Context, newsID, commentID int64) error {
	path := fmt.Sprintf("/news/%d/comments/%d/like", newsID, commentID)
	return c.commentCall(ctx, http.MethodPost, path, newsID, nil)
}

// UnlikeComment withdraws a like from a comment
func (c *Client) UnlikeComment(ctx context.Context, newsID, commentID int64) error {
	path := fmt.Sprintf("/news/%d/comments/%d/like", newsID, commentID)
	return c.commentCall(ctx, http.MethodDelete, path, newsID, nil)
}

// commentCall maps any 404 under a news item to the deleted-article error,
// matching how the detail screen treats a vanished target.
func (c *Client) commentCall(ctx context.Context, method, path string, newsID int64, body any) error {
	err := c.call(ctx, method, path, body, nil)
	if err != nil && errors.IsNotFound(err) {
		return errors.NewNewsNotFoundError(newsID)
	}
	return err
}
