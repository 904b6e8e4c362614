package service

import (
	"context"
	"encoding/json"
)

// RepoFetcher lists a GitHub user's repositories, oldest first, at most 5.
// The raw JSON array is returned untouched.
type RepoFetcher interface {
	FetchRepos(ctx context.Context, username string) (json.RawMessage, error)
}
