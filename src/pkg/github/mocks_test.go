package github

import (
	"context"
	"fmt"

	"github.com/gh-nvat/release-updatez/src/pkg/models"
)

// MockCommentAPI provides a mock implementation of the comment surface with
// recorded calls and per-operation error injection.
type MockCommentAPI struct {
	comments []*models.Comment
	nextID   int64
	errors   map[string]error // operation -> error

	created []string
	updated map[int64]string
}

func NewMockCommentAPI() *MockCommentAPI {
	return &MockCommentAPI{
		nextID:  1,
		errors:  make(map[string]error),
		updated: make(map[int64]string),
	}
}

// Ensure MockCommentAPI implements CommentAPI
var _ CommentAPI = (*MockCommentAPI)(nil)

func (m *MockCommentAPI) SetError(operation string, err error) {
	m.errors[operation] = err
}

func (m *MockCommentAPI) AddComment(body string) *models.Comment {
	comment := &models.Comment{ID: m.nextID, Body: body}
	m.nextID++
	m.comments = append(m.comments, comment)
	return comment
}

func (m *MockCommentAPI) GetComments(ctx context.Context, repo string, prNumber int) ([]*models.Comment, error) {
	if err, exists := m.errors["GetComments"]; exists {
		return nil, err
	}
	return m.comments, nil
}

func (m *MockCommentAPI) CreateComment(ctx context.Context, repo string, prNumber int, body string) (*models.Comment, error) {
	if err, exists := m.errors["CreateComment"]; exists {
		return nil, err
	}
	m.created = append(m.created, body)
	return m.AddComment(body), nil
}

func (m *MockCommentAPI) UpdateComment(ctx context.Context, repo string, commentID int64, body string) error {
	if err, exists := m.errors["UpdateComment"]; exists {
		return err
	}
	for _, comment := range m.comments {
		if comment.ID == commentID {
			comment.Body = body
			m.updated[commentID] = body
			return nil
		}
	}
	return fmt.Errorf("comment %d not found", commentID)
}
