package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newswatch/internal/domain/entity"
	"newswatch/internal/resilience/retry"
	"newswatch/internal/utils/text"
)

const (
	// graphAPIBaseURL pins the Graph API version the field list was written
	// against.
	graphAPIBaseURL = "https://graph.facebook.com/v18.0"

	// postFields is the field selection for the page feed request.
	postFields = "id,message,created_time,permalink_url,full_picture,attachments{media,title,description}"

	// postLimit caps how many posts one run pulls per page.
	postLimit = 10

	// createdTimeLayout is the Graph API timestamp format. Note the offset
	// has no colon, so RFC3339 does not parse it.
	createdTimeLayout = "2006-01-02T15:04:05-0700"

	// maxTitleUnits bounds post titles derived from the message body.
	maxTitleUnits = 100

	// maxResponseBytes caps how much of a Graph API response we read.
	maxResponseBytes = 10 << 20
)

// FacebookConfig configures a FacebookFetcher for one page.
type FacebookConfig struct {
	// AccessToken is the page or app token. Empty means the source cannot be
	// fetched and Fetch fails with a descriptive error.
	AccessToken string

	// PageID is the numeric page ID or vanity name.
	PageID string

	// BaseURL overrides the Graph API endpoint, for tests.
	BaseURL string
}

// FacebookFetcher pulls recent posts from a Facebook page feed.
type FacebookFetcher struct {
	client      *http.Client
	cfg         FacebookConfig
	retryConfig retry.Config
}

// NewFacebookFetcher creates a fetcher for the configured page.
func NewFacebookFetcher(client *http.Client, cfg FacebookConfig) *FacebookFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = graphAPIBaseURL
	}
	return &FacebookFetcher{
		client:      client,
		cfg:         cfg,
		retryConfig: retry.ScrapeConfig(),
	}
}

// facebookPost is the Graph API post shape for the fields we request.
type facebookPost struct {
	ID           string `json:"id"`
	Message      string `json:"message"`
	CreatedTime  string `json:"created_time"`
	PermalinkURL string `json:"permalink_url"`
	FullPicture  string `json:"full_picture"`
	Attachments  struct {
		Data []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Media       struct {
				Image struct {
					Src string `json:"src"`
				} `json:"image"`
			} `json:"media"`
		} `json:"data"`
	} `json:"attachments"`
}

type facebookFeedResponse struct {
	Data []facebookPost `json:"data"`
}

type facebookErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Fetch retrieves the page feed and maps each post to a RawEntry. A missing
// access token is an error, not a silent empty result: the operator needs to
// know credentials are absent.
func (f *FacebookFetcher) Fetch(ctx context.Context, src entity.Source) ([]entity.RawEntry, error) {
	if f.cfg.AccessToken == "" {
		return nil, fmt.Errorf("FACEBOOK_ACCESS_TOKEN is not set, cannot fetch page %s", f.cfg.PageID)
	}
	if f.cfg.PageID == "" {
		return nil, fmt.Errorf("no Facebook page ID configured for source %s", src.ID)
	}

	var posts []facebookPost
	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		var err error
		posts, err = f.fetchFeed(ctx)
		return err
	})
	if retryErr != nil {
		return nil, retryErr
	}

	entries := make([]entity.RawEntry, 0, len(posts))
	for _, post := range posts {
		entries = append(entries, f.mapPost(post))
	}
	return entries, nil
}

func (f *FacebookFetcher) fetchFeed(ctx context.Context) ([]facebookPost, error) {
	endpoint := fmt.Sprintf("%s/%s/posts", f.cfg.BaseURL, url.PathEscape(f.cfg.PageID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building Graph API request: %w", err)
	}

	q := req.URL.Query()
	q.Set("fields", postFields)
	q.Set("limit", fmt.Sprintf("%d", postLimit))
	q.Set("access_token", f.cfg.AccessToken)
	req.URL.RawQuery = q.Encode()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Graph API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading Graph API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr facebookErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, &retry.HTTPError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("Graph API error: %s", apiErr.Error.Message),
			}
		}
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: "Graph API request failed"}
	}

	var feed facebookFeedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decoding Graph API response: %w", err)
	}
	return feed.Data, nil
}

// mapPost turns one Graph API post into a RawEntry.
func (f *FacebookFetcher) mapPost(post facebookPost) entity.RawEntry {
	entry := entity.RawEntry{
		Title:   f.postTitle(post),
		Link:    post.PermalinkURL,
		Snippet: strings.TrimSpace(post.Message),
		Content: strings.TrimSpace(post.Message),
		Image:   post.FullPicture,
	}

	if entry.Image == "" && len(post.Attachments.Data) > 0 {
		entry.Image = post.Attachments.Data[0].Media.Image.Src
	}

	if t, err := time.Parse(createdTimeLayout, post.CreatedTime); err == nil {
		entry.PublishedAt = &t
	}

	return entry
}

// postTitle derives a display title: first line of the message, the
// attachment title, or a generic fallback.
func (f *FacebookFetcher) postTitle(post facebookPost) string {
	if line := strings.TrimSpace(text.FirstLine(post.Message)); line != "" {
		return text.Truncate(line, maxTitleUnits)
	}
	for _, att := range post.Attachments.Data {
		if t := strings.TrimSpace(att.Title); t != "" {
			return t
		}
	}
	return "Facebook Post"
}
