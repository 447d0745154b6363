package github

import (
	"fmt"
	"strings"
)

// ParseOwnerRepo splits an "owner/name" repository slug into its parts.
func ParseOwnerRepo(repo string) (string, string, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format, expected owner/name: %s", repo)
	}
	return parts[0], parts[1], nil
}
