package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"devshare/internal/middleware"
	"devshare/internal/models"
	"devshare/internal/repositories"
	"devshare/internal/telemetry"
)

const defaultProjectPageSize = 10

// ProjectHandler manages project CRUD and engagement endpoints.
type ProjectHandler struct {
	projectRepo    repositories.ProjectRepository
	engagementRepo repositories.EngagementRepository
	audit          *telemetry.AuditEmitter
}

// NewProjectHandler builds a ProjectHandler.
func NewProjectHandler(projectRepo repositories.ProjectRepository, engagementRepo repositories.EngagementRepository, audit *telemetry.AuditEmitter) *ProjectHandler {
	return &ProjectHandler{projectRepo: projectRepo, engagementRepo: engagementRepo, audit: audit}
}

type projectRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=100"`
	Description string  `json:"description" binding:"required,min=10,max=500"`
	Image       *string `json:"image" binding:"omitempty,url"`
	URL         *string `json:"url" binding:"omitempty,url"`
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projectRepo.CreateProject(c.Request.Context(), session.ID, req.Title, req.Description, req.Image, req.URL)
	if err != nil {
		log.Printf("create project failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	h.emitAudit(c, "INFO", "project created")
	c.JSON(http.StatusCreated, project)
}

// List handles GET /projects with search and keyset pagination.
func (h *ProjectHandler) List(c *gin.Context) {
	viewerID := ""
	if session, ok := middleware.SessionFrom(c); ok {
		viewerID = session.ID
	}

	limit := defaultProjectPageSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 50"})
			return
		}
		limit = parsed
	}

	projects, err := h.projectRepo.ListProjects(c.Request.Context(), viewerID, c.Query("query"), c.Query("cursor"), limit)
	if err != nil {
		if errors.Is(err, repositories.ErrInvalidCursor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
			return
		}
		log.Printf("list projects failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}

	var nextCursor *string
	if len(projects) == limit {
		last := projects[len(projects)-1].ID
		nextCursor = &last
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "next_cursor": nextCursor})
}

// Get handles GET /projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	viewerID := ""
	if session, ok := middleware.SessionFrom(c); ok {
		viewerID = session.ID
	}

	summary, err := h.projectRepo.GetProjectSummary(c.Request.Context(), c.Param("id"), viewerID)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		log.Printf("load project failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Update handles PUT /projects/:id. Author-only.
func (h *ProjectHandler) Update(c *gin.Context) {
	project, ok := h.loadOwnedProject(c)
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.projectRepo.UpdateProject(c.Request.Context(), project.ID, req.Title, req.Description, req.Image, req.URL)
	if err != nil {
		log.Printf("update project failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /projects/:id. Author-only; removes the project
// together with its likes, reposts and comments in one transaction.
func (h *ProjectHandler) Delete(c *gin.Context) {
	project, ok := h.loadOwnedProject(c)
	if !ok {
		return
	}

	if err := h.projectRepo.DeleteProjectCascade(c.Request.Context(), project.ID); err != nil {
		log.Printf("delete project failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}

	h.emitAudit(c, "INFO", "project deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Like handles POST /projects/:id/like.
func (h *ProjectHandler) Like(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	if err := h.engagementRepo.LikeProject(c.Request.Context(), session.ID, projectID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyLiked) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project already liked"})
			return
		}
		log.Printf("like project failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to like project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Unlike handles DELETE /projects/:id/like. Idempotent.
func (h *ProjectHandler) Unlike(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	if err := h.engagementRepo.UnlikeProject(c.Request.Context(), session.ID, c.Param("id")); err != nil {
		log.Printf("unlike project failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unlike project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Repost handles POST /projects/:id/repost.
func (h *ProjectHandler) Repost(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	if err := h.engagementRepo.RepostProject(c.Request.Context(), session.ID, projectID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyReposted) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "project already reposted"})
			return
		}
		log.Printf("repost project failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to repost project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Unrepost handles DELETE /projects/:id/repost. Idempotent.
func (h *ProjectHandler) Unrepost(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	if err := h.engagementRepo.UnrepostProject(c.Request.Context(), session.ID, c.Param("id")); err != nil {
		log.Printf("unrepost project failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove repost"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateComment handles POST /projects/:id/comments.
func (h *ProjectHandler) CreateComment(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)
	projectID, ok := h.requireProject(c)
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,min=1,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.engagementRepo.CreateComment(c.Request.Context(), session.ID, projectID, req.Content)
	if err != nil {
		log.Printf("create comment failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListComments handles GET /projects/:id/comments.
func (h *ProjectHandler) ListComments(c *gin.Context) {
	comments, err := h.engagementRepo.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Printf("list comments failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// loadOwnedProject fetches the project and enforces that the caller is
// its author, writing the error response itself when not.
func (h *ProjectHandler) loadOwnedProject(c *gin.Context) (models.Project, bool) {
	session, _ := middleware.SessionFrom(c)

	p, err := h.projectRepo.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return models.Project{}, false
		}
		log.Printf("load project failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return models.Project{}, false
	}
	if p.AuthorID != session.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the project author"})
		return models.Project{}, false
	}

	return p, true
}

// requireProject confirms the project exists before an engagement write.
func (h *ProjectHandler) requireProject(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := h.projectRepo.GetProject(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return "", false
		}
		log.Printf("load project failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load project"})
		return "", false
	}
	return id, true
}

func (h *ProjectHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
