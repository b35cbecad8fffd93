// Package fandom implements the authenticated client for the wiki
// platform's moderation and lookup endpoints.
package fandom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sacrificing/Fandom-Report-Bot/internal/config"
	"github.com/sacrificing/Fandom-Report-Bot/internal/model"
)

// ErrUnauthenticated marks a request rejected because the session is
// missing or no longer accepted by the platform.
var ErrUnauthenticated = errors.New("unauthenticated")

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Container type values used by the moderation API.
const (
	ContainerForum          = "FORUM"
	ContainerArticleComment = "ARTICLE_COMMENT"
	ContainerWall           = "WALL"
)

const maxBodySize = 10 * 1024 * 1024

// Post is the wire representation of a reported post.
type Post struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	RawContent    string `json:"rawContent"`
	JSONModel     string `json:"jsonModel"`
	ThreadID      string `json:"threadId"`
	ForumName     string `json:"forumName"`
	ContainerType string `json:"containerType"`
	ContainerID   string `json:"containerId"`
	IsReply       bool   `json:"isReply"`
	IsLocked      bool   `json:"isLocked"`
	IsDeleted     bool   `json:"isDeleted"`
	CreationDate  struct {
		EpochSecond int64 `json:"epochSecond"`
	} `json:"creationDate"`
	CreatedBy struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatarUrl"`
	} `json:"createdBy"`
	Poll *struct {
		Answers []struct {
			Text string `json:"text"`
		} `json:"answers"`
	} `json:"poll"`
	Quiz     json.RawMessage `json:"quiz"`
	Embedded struct {
		ContentImages []struct {
			URL string `json:"url"`
		} `json:"contentImages"`
	} `json:"_embedded"`
}

// HasQuiz reports whether the post carries a quiz attachment.
func (p Post) HasQuiz() bool {
	return len(p.Quiz) > 0 && string(p.Quiz) != "null"
}

// WallOwner pairs a message-wall container with its owning user. The
// moderation endpoint returns these alongside the posts themselves.
type WallOwner struct {
	WallContainerID string `json:"wallContainerId"`
	UserID          string `json:"userId"`
}

// Client talks to the wiki platform on behalf of one account.
type Client struct {
	http        HTTPClient
	jar         http.CookieJar
	wikiURL     string
	servicesURL string
	domain      string
	username    string
	password    string
	log         *slog.Logger
}

// New creates a Client with its own cookie-jar-backed HTTP client.
func New(cfg *config.Config, log *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := NewWithHTTPClient(cfg, &http.Client{Jar: jar, Timeout: 30 * time.Second}, log)
	c.jar = jar
	return c, nil
}

// NewWithHTTPClient creates a Client on an externally supplied HTTP
// client (useful for testing). The session cookie is only installed
// when a jar was attached via New.
func NewWithHTTPClient(cfg *config.Config, httpClient HTTPClient, log *slog.Logger) *Client {
	return &Client{
		http:        httpClient,
		wikiURL:     cfg.WikiURL(),
		servicesURL: cfg.ServicesURL(),
		domain:      cfg.Domain,
		username:    cfg.Username,
		password:    cfg.Password,
		log:         log,
	}
}

// ReportedPosts fetches the current batch of reported posts, newest
// first, together with the wall-owner companion list.
func (c *Client) ReportedPosts(ctx context.Context) ([]Post, []WallOwner, error) {
	q := url.Values{
		"controller": {"DiscussionModeration"},
		"method":     {"getReportedPosts"},
		"format":     {"json"},
		"limit":      {"100"},
		// Cache buster: intermediaries must not serve a stale queue.
		"t": {strconv.FormatInt(time.Now().Unix(), 10)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.wikiURL+"/wikia.php?"+q.Encode(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}

	var out struct {
		Embedded struct {
			Posts      []Post      `json:"doc:posts"`
			WallOwners []WallOwner `json:"wallOwners"`
		} `json:"_embedded"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return nil, nil, fmt.Errorf("reported posts: %w", err)
	}
	return out.Embedded.Posts, out.Embedded.WallOwners, nil
}

// ResolveContainers looks up article titles/URLs and usernames for the
// ids referenced by one poll batch. The result is only valid for that
// batch; container metadata may change between cycles.
func (c *Client) ResolveContainers(ctx context.Context, pageIDs, userIDs []string) (model.ContainerIndex, error) {
	q := url.Values{
		"controller":    {"FeedsAndPosts"},
		"method":        {"getArticleNamesAndUsernames"},
		"format":        {"json"},
		"stablePageIds": {strings.Join(pageIDs, ",")},
		"userIds":       {strings.Join(userIDs, ",")},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.wikiURL+"/wikia.php?"+q.Encode(), nil)
	if err != nil {
		return model.ContainerIndex{}, fmt.Errorf("create request: %w", err)
	}

	var out struct {
		ArticleNames map[string]struct {
			Title       string `json:"title"`
			RelativeURL string `json:"relativeUrl"`
		} `json:"articleNames"`
		UserIDs map[string]struct {
			Username string `json:"username"`
		} `json:"userIds"`
	}
	if err := c.doJSON(req, &out); err != nil {
		return model.ContainerIndex{}, fmt.Errorf("resolve containers: %w", err)
	}

	idx := model.ContainerIndex{
		Articles: make(map[string]model.Article, len(out.ArticleNames)),
		Users:    make(map[string]model.User, len(out.UserIDs)),
	}
	for id, a := range out.ArticleNames {
		idx.Articles[id] = model.Article{Title: a.Title, RelativeURL: a.RelativeURL}
	}
	for id, u := range out.UserIDs {
		idx.Users[id] = model.User{Username: u.Username}
	}
	return idx, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http %s: %w", req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s: %w", req.URL.Path, ErrUnauthenticated)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", req.URL.Path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
