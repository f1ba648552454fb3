package entity

import "time"

// Post is a feed entry. A post with a non-empty OriginalPostID is a reshare
// wrapper: it carries no text of its own and points at the post it reshares.
type Post struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	Text           string    `json:"text"`
	Value          int       `json:"value"`
	Likes          int       `json:"likes"`
	Reshares       int       `json:"reshares"`
	OriginalPostID string    `json:"original_post_id,omitempty"`
	ShowOriginal   bool      `json:"show_original"`
	CreatedAt      time.Time `json:"created"`
}

func (p *Post) IsWrapper() bool {
	return p.OriginalPostID != ""
}

// FeedPost is a Post enriched with per-viewer flags.
type FeedPost struct {
	Post
	Liked    bool `json:"liked"`
	Reshared bool `json:"reshared"`
	Owned    bool `json:"owned"`
}
