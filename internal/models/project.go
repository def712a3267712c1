package models

import "time"

// Project is a shared developer project.
type Project struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Image       *string   `db:"image" json:"image"`
	URL         *string   `db:"url" json:"url"`
	Published   bool      `db:"published" json:"published"`
	AuthorID    string    `db:"author_id" json:"author_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ProjectSummary decorates a project with its author, engagement counts
// and the viewer's own like/repost state.
type ProjectSummary struct {
	Project
	Author           PublicUser `db:"-" json:"author"`
	LikeCount        int        `json:"like_count"`
	RepostCount      int        `json:"repost_count"`
	CommentCount     int        `json:"comment_count"`
	IsLikedByUser    bool       `json:"is_liked_by_user"`
	IsRepostedByUser bool       `json:"is_reposted_by_user"`
}

// Comment is a user comment on a project.
type Comment struct {
	ID        string     `db:"id" json:"id"`
	Content   string     `db:"content" json:"content"`
	AuthorID  string     `db:"author_id" json:"author_id"`
	ProjectID string     `db:"project_id" json:"project_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	Author    PublicUser `db:"-" json:"author"`
}
