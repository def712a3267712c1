package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"devshare/internal/models"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidCursor   = errors.New("invalid pagination cursor")
)

// ProjectRepository abstracts project persistence.
type ProjectRepository interface {
	CreateProject(ctx context.Context, authorID, title, description string, image, url *string) (models.Project, error)
	GetProject(ctx context.Context, id string) (models.Project, error)
	GetProjectSummary(ctx context.Context, id, viewerID string) (models.ProjectSummary, error)
	ListProjects(ctx context.Context, viewerID, query, cursor string, limit int) ([]models.ProjectSummary, error)
	UpdateProject(ctx context.Context, id, title, description string, image, url *string) (models.Project, error)
	DeleteProjectCascade(ctx context.Context, id string) error
}

// ProjectRepo is a sqlx implementation of ProjectRepository.
type ProjectRepo struct {
	db *sqlx.DB
}

// NewProjectRepo constructs a ProjectRepo.
func NewProjectRepo(db *sqlx.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

const projectColumns = `id, title, description, image, url, published, author_id, created_at, updated_at`

// CreateProject stores a new project.
func (r *ProjectRepo) CreateProject(ctx context.Context, authorID, title, description string, image, url *string) (models.Project, error) {
	var p models.Project
	err := r.db.QueryRowxContext(ctx, `INSERT INTO projects (id, title, description, image, url, author_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+projectColumns,
		uuid.NewString(), title, description, image, url, authorID).StructScan(&p)
	return p, err
}

// GetProject fetches a project by id without engagement data.
func (r *ProjectRepo) GetProject(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	err := r.db.GetContext(ctx, &p, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, ErrProjectNotFound
	}
	return p, err
}

// summaryRow is the flat scan target for enriched project queries.
type summaryRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Image       *string   `db:"image"`
	URL         *string   `db:"url"`
	Published   bool      `db:"published"`
	AuthorID    string    `db:"author_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
	AuthorName  string    `db:"author_name"`
	AuthorImage *string   `db:"author_image"`
	LikeCount   int       `db:"like_count"`
	RepostCount int       `db:"repost_count"`
	CommentCnt  int       `db:"comment_count"`
	Liked       bool      `db:"liked"`
	Reposted    bool      `db:"reposted"`
}

func (row summaryRow) toSummary() models.ProjectSummary {
	return models.ProjectSummary{
		Project: models.Project{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Image:       row.Image,
			URL:         row.URL,
			Published:   row.Published,
			AuthorID:    row.AuthorID,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		},
		Author:           models.PublicUser{ID: row.AuthorID, Name: row.AuthorName, Image: row.AuthorImage},
		LikeCount:        row.LikeCount,
		RepostCount:      row.RepostCount,
		CommentCount:     row.CommentCnt,
		IsLikedByUser:    row.Liked,
		IsRepostedByUser: row.Reposted,
	}
}

const summarySelect = `SELECT p.id, p.title, p.description, p.image, p.url, p.published,
        p.author_id, p.created_at, p.updated_at,
        u.name AS author_name, u.image AS author_image,
        (SELECT COUNT(*) FROM likes l WHERE l.project_id = p.id) AS like_count,
        (SELECT COUNT(*) FROM reposts rp WHERE rp.project_id = p.id) AS repost_count,
        (SELECT COUNT(*) FROM comments c WHERE c.project_id = p.id) AS comment_count,
        EXISTS(SELECT 1 FROM likes l WHERE l.project_id = p.id AND l.user_id = $1) AS liked,
        EXISTS(SELECT 1 FROM reposts rp WHERE rp.project_id = p.id AND rp.user_id = $1) AS reposted
    FROM projects p
    JOIN users u ON u.id = p.author_id`

// GetProjectSummary fetches a project enriched with author, counts and
// the viewer's like/repost state. viewerID may be empty for anonymous
// readers, in which case both flags come back false.
func (r *ProjectRepo) GetProjectSummary(ctx context.Context, id, viewerID string) (models.ProjectSummary, error) {
	var row summaryRow
	err := r.db.GetContext(ctx, &row, summarySelect+` WHERE p.id = $2`, viewerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ProjectSummary{}, ErrProjectNotFound
	}
	if err != nil {
		return models.ProjectSummary{}, err
	}
	return row.toSummary(), nil
}

// ListProjects returns published projects newest-first with optional
// title/description search and keyset pagination on (created_at, id).
// A cursor pointing at a project that no longer exists yields
// ErrInvalidCursor instead of an indistinguishable empty page.
func (r *ProjectRepo) ListProjects(ctx context.Context, viewerID, query, cursor string, limit int) ([]models.ProjectSummary, error) {
	if cursor != "" {
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM projects WHERE id = $1)`, cursor); err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrInvalidCursor
		}
	}

	rows := []summaryRow{}
	err := r.db.SelectContext(ctx, &rows, summarySelect+`
        WHERE p.published = TRUE
          AND (p.title ILIKE '%' || $2 || '%' OR p.description ILIKE '%' || $2 || '%')
          AND ($3 = '' OR (p.created_at, p.id) < (SELECT created_at, id FROM projects WHERE id = $3))
        ORDER BY p.created_at DESC, p.id DESC
        LIMIT $4`, viewerID, query, cursor, limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.ProjectSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.toSummary())
	}
	return summaries, nil
}

// UpdateProject rewrites the mutable fields of a project.
func (r *ProjectRepo) UpdateProject(ctx context.Context, id, title, description string, image, url *string) (models.Project, error) {
	var p models.Project
	err := r.db.QueryRowxContext(ctx, `UPDATE projects
        SET title = $2, description = $3, image = $4, url = $5, updated_at = NOW()
        WHERE id = $1
        RETURNING `+projectColumns, id, title, description, image, url).StructScan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, ErrProjectNotFound
	}
	return p, err
}

// DeleteProjectCascade removes a project together with its likes,
// reposts and comments in a single transaction. Any step failing rolls
// back the whole deletion.
func (r *ProjectRepo) DeleteProjectCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM likes WHERE project_id = $1`,
		`DELETE FROM reposts WHERE project_id = $1`,
		`DELETE FROM comments WHERE project_id = $1`,
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, id); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrProjectNotFound
	}

	return tx.Commit()
}
