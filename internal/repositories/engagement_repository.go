package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"devshare/internal/models"
)

var (
	ErrAlreadyLiked    = errors.New("project already liked")
	ErrAlreadyReposted = errors.New("project already reposted")
)

// EngagementRepository covers likes, reposts and comments.
type EngagementRepository interface {
	LikeProject(ctx context.Context, userID, projectID string) error
	UnlikeProject(ctx context.Context, userID, projectID string) error
	RepostProject(ctx context.Context, userID, projectID string) error
	UnrepostProject(ctx context.Context, userID, projectID string) error
	CreateComment(ctx context.Context, authorID, projectID, content string) (models.Comment, error)
	ListComments(ctx context.Context, projectID string) ([]models.Comment, error)
}

// EngagementRepo is a sqlx implementation of EngagementRepository.
type EngagementRepo struct {
	db *sqlx.DB
}

// NewEngagementRepo constructs an EngagementRepo.
func NewEngagementRepo(db *sqlx.DB) *EngagementRepo {
	return &EngagementRepo{db: db}
}

// LikeProject records a like. Liking twice yields ErrAlreadyLiked.
func (r *EngagementRepo) LikeProject(ctx context.Context, userID, projectID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO likes (user_id, project_id) VALUES ($1, $2)`, userID, projectID)
	if isUniqueViolation(err) {
		return ErrAlreadyLiked
	}
	return err
}

// UnlikeProject removes a like. Removing an absent like is a no-op.
func (r *EngagementRepo) UnlikeProject(ctx context.Context, userID, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	return err
}

// RepostProject records a repost. Reposting twice yields ErrAlreadyReposted.
func (r *EngagementRepo) RepostProject(ctx context.Context, userID, projectID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO reposts (user_id, project_id) VALUES ($1, $2)`, userID, projectID)
	if isUniqueViolation(err) {
		return ErrAlreadyReposted
	}
	return err
}

// UnrepostProject removes a repost. Removing an absent repost is a no-op.
func (r *EngagementRepo) UnrepostProject(ctx context.Context, userID, projectID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reposts WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	return err
}

// CreateComment stores a comment and returns it with the author attached.
func (r *EngagementRepo) CreateComment(ctx context.Context, authorID, projectID, content string) (models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRowxContext(ctx, `INSERT INTO comments (id, content, author_id, project_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, content, author_id, project_id, created_at`,
		uuid.NewString(), content, authorID, projectID).
		Scan(&c.ID, &c.Content, &c.AuthorID, &c.ProjectID, &c.CreatedAt)
	if err != nil {
		return models.Comment{}, err
	}
	err = r.db.QueryRowxContext(ctx, `SELECT id, name, image FROM users WHERE id = $1`, authorID).
		Scan(&c.Author.ID, &c.Author.Name, &c.Author.Image)
	return c, err
}

// ListComments returns a project's comments newest-first with authors.
func (r *EngagementRepo) ListComments(ctx context.Context, projectID string) ([]models.Comment, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT c.id, c.content, c.author_id, c.project_id, c.created_at,
            u.name, u.image
        FROM comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.project_id = $1
        ORDER BY c.created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.AuthorID, &c.ProjectID, &c.CreatedAt, &c.Author.Name, &c.Author.Image); err != nil {
			return nil, err
		}
		c.Author.ID = c.AuthorID
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}
