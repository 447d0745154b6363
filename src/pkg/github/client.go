package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gh-nvat/release-updatez/src/pkg/models"
)

var logger = log.WithField("package", "github")

// CommentMarker tags the run report comment so a rerun updates the existing
// comment instead of stacking duplicates.
const CommentMarker = "<!-- release-updatez: auto-generated comment, please do not remove -->"

// CommentAPI is the raw comment surface of the GitHub API.
type CommentAPI interface {
	// GetComments retrieves all comments for a pull request
	GetComments(ctx context.Context, repo string, prNumber int) ([]*models.Comment, error)
	// CreateComment creates a new comment on a pull request
	CreateComment(ctx context.Context, repo string, prNumber int, body string) (*models.Comment, error)
	// UpdateComment updates an existing comment
	UpdateComment(ctx context.Context, repo string, commentID int64, body string) error
}

// CommentClient defines the GitHub API operations used for publishing.
type CommentClient interface {
	CommentAPI

	// PublishRunReport creates or updates the marker-tagged run report comment
	PublishRunReport(ctx context.Context, repo string, prNumber int, body string) error
}

// Client handles GitHub API interactions using go-github
type Client struct {
	client *github.Client
}

// Ensure Client implements CommentClient
var _ CommentClient = (*Client)(nil)

// NewClient creates a new GitHub client
func NewClient() (*Client, error) {
	token := os.Getenv("GH_TOKEN")
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("GitHub token not found. Set GH_TOKEN or GITHUB_TOKEN environment variable")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		client: github.NewClient(tc),
	}, nil
}

// GetComments retrieves all comments for a pull request
func (c *Client) GetComments(ctx context.Context, repo string, prNumber int) ([]*models.Comment, error) {
	owner, name, err := ParseOwnerRepo(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository: %w", err)
	}

	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var allComments []*models.Comment
	for {
		comments, resp, err := c.client.Issues.ListComments(ctx, owner, name, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to get comments: %w", err)
		}

		for _, comment := range comments {
			allComments = append(allComments, &models.Comment{
				ID:   comment.GetID(),
				Body: comment.GetBody(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allComments, nil
}

// CreateComment creates a new comment on a pull request
func (c *Client) CreateComment(ctx context.Context, repo string, prNumber int, body string) (*models.Comment, error) {
	owner, name, err := ParseOwnerRepo(repo)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository: %w", err)
	}

	created, _, err := c.client.Issues.CreateComment(ctx, owner, name, prNumber, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return &models.Comment{
		ID:   created.GetID(),
		Body: created.GetBody(),
	}, nil
}

// UpdateComment updates an existing comment
func (c *Client) UpdateComment(ctx context.Context, repo string, commentID int64, body string) error {
	owner, name, err := ParseOwnerRepo(repo)
	if err != nil {
		return fmt.Errorf("failed to parse repository: %w", err)
	}

	if _, _, err := c.client.Issues.EditComment(ctx, owner, name, commentID, &github.IssueComment{
		Body: github.String(body),
	}); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// findRunComment returns the first comment carrying the marker, or nil.
func findRunComment(ctx context.Context, api CommentAPI, repo string, prNumber int) (*models.Comment, error) {
	comments, err := api.GetComments(ctx, repo, prNumber)
	if err != nil {
		return nil, err
	}

	for _, comment := range comments {
		if strings.Contains(comment.Body, CommentMarker) {
			return comment, nil
		}
	}
	return nil, nil
}

// publishRunReport creates or updates the marker-tagged run report comment.
func publishRunReport(ctx context.Context, api CommentAPI, repo string, prNumber int, body string) error {
	full := CommentMarker + "\n\n" + body

	existing, err := findRunComment(ctx, api, repo, prNumber)
	if err != nil {
		return err
	}

	if existing != nil {
		logger.WithField("commentID", existing.ID).Info("updating existing run report comment")
		return api.UpdateComment(ctx, repo, existing.ID, full)
	}

	created, err := api.CreateComment(ctx, repo, prNumber, full)
	if err != nil {
		return err
	}
	logger.WithField("commentID", created.ID).Info("created run report comment")
	return nil
}

// PublishRunReport creates or updates the marker-tagged run report comment.
func (c *Client) PublishRunReport(ctx context.Context, repo string, prNumber int, body string) error {
	return publishRunReport(ctx, c, repo, prNumber, body)
}
