package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"devshare/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, name, email, passwordHash string) (models.User, error) {
	args := m.Called(ctx, name, email, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, senderID, recipientID, content string) (models.Message, error) {
	args := m.Called(ctx, senderID, recipientID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListConversation(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	args := m.Called(ctx, userID, otherID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) MarkConversationRead(ctx context.Context, recipientID, senderID string) (int64, error) {
	args := m.Called(ctx, recipientID, senderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepositoryMock) ListConversationSummaries(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	var summaries []models.ConversationSummary
	if val := args.Get(0); val != nil {
		summaries = val.([]models.ConversationSummary)
	}
	return summaries, args.Error(1)
}

type ProjectRepositoryMock struct {
	mock.Mock
}

func (m *ProjectRepositoryMock) CreateProject(ctx context.Context, authorID, title, description string, image, url *string) (models.Project, error) {
	args := m.Called(ctx, authorID, title, description, image, url)
	var p models.Project
	if val := args.Get(0); val != nil {
		p = val.(models.Project)
	}
	return p, args.Error(1)
}

func (m *ProjectRepositoryMock) GetProject(ctx context.Context, id string) (models.Project, error) {
	args := m.Called(ctx, id)
	var p models.Project
	if val := args.Get(0); val != nil {
		p = val.(models.Project)
	}
	return p, args.Error(1)
}

func (m *ProjectRepositoryMock) GetProjectSummary(ctx context.Context, id, viewerID string) (models.ProjectSummary, error) {
	args := m.Called(ctx, id, viewerID)
	var summary models.ProjectSummary
	if val := args.Get(0); val != nil {
		summary = val.(models.ProjectSummary)
	}
	return summary, args.Error(1)
}

func (m *ProjectRepositoryMock) ListProjects(ctx context.Context, viewerID, query, cursor string, limit int) ([]models.ProjectSummary, error) {
	args := m.Called(ctx, viewerID, query, cursor, limit)
	var summaries []models.ProjectSummary
	if val := args.Get(0); val != nil {
		summaries = val.([]models.ProjectSummary)
	}
	return summaries, args.Error(1)
}

func (m *ProjectRepositoryMock) UpdateProject(ctx context.Context, id, title, description string, image, url *string) (models.Project, error) {
	args := m.Called(ctx, id, title, description, image, url)
	var p models.Project
	if val := args.Get(0); val != nil {
		p = val.(models.Project)
	}
	return p, args.Error(1)
}

func (m *ProjectRepositoryMock) DeleteProjectCascade(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type EngagementRepositoryMock struct {
	mock.Mock
}

func (m *EngagementRepositoryMock) LikeProject(ctx context.Context, userID, projectID string) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *EngagementRepositoryMock) UnlikeProject(ctx context.Context, userID, projectID string) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *EngagementRepositoryMock) RepostProject(ctx context.Context, userID, projectID string) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *EngagementRepositoryMock) UnrepostProject(ctx context.Context, userID, projectID string) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *EngagementRepositoryMock) CreateComment(ctx context.Context, authorID, projectID, content string) (models.Comment, error) {
	args := m.Called(ctx, authorID, projectID, content)
	var comment models.Comment
	if val := args.Get(0); val != nil {
		comment = val.(models.Comment)
	}
	return comment, args.Error(1)
}

func (m *EngagementRepositoryMock) ListComments(ctx context.Context, projectID string) ([]models.Comment, error) {
	args := m.Called(ctx, projectID)
	var comments []models.Comment
	if val := args.Get(0); val != nil {
		comments = val.([]models.Comment)
	}
	return comments, args.Error(1)
}
