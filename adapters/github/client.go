package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 5 * time.Second
	reposPerPage   = "5"
	userAgent      = "devconnector-api"
	maxBodyBytes   = 1 << 20
)

type restClient struct {
	http    *http.Client
	baseURL string
	token   string
	logger  logger.Logger
}

// NewRepoFetcher calls the GitHub REST API. The token, when set, travels in
// the Authorization header only.
func NewRepoFetcher(cfg config.Config, log logger.Logger) service.RepoFetcher {
	timeout := cfg.GitHub.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := strings.TrimRight(cfg.GitHub.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &restClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		token:   cfg.GitHub.Token,
		logger:  log,
	}
}

func (c *restClient) FetchRepos(ctx context.Context, username string) (json.RawMessage, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperror.NewUpstream("empty github username", nil)
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos", c.baseURL, url.PathEscape(username))
	query := url.Values{}
	query.Set("per_page", reposPerPage)
	query.Set("sort", "created")
	query.Set("direction", "asc")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, apperror.NewUpstream("failed to build github request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("GitHub request failed", zap.String("username", username), zap.Error(err))
		return nil, apperror.NewUpstream("github request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Info("GitHub returned non-200",
			zap.String("username", username), zap.Int("status", resp.StatusCode))
		return nil, apperror.NewUpstream(fmt.Sprintf("github status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, apperror.NewUpstream("failed to read github response", err)
	}
	if !json.Valid(body) {
		return nil, apperror.NewUpstream("github returned invalid json", nil)
	}
	return json.RawMessage(body), nil
}
