// Package youtube wraps the YouTube Data API for the publishing and
// analytics agents.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/soyeahso/tubecrew/internal/config"
	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// Stats are the public counters of a video.
type Stats struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ViewCount    uint64 `json:"view_count"`
	LikeCount    uint64 `json:"like_count"`
	CommentCount uint64 `json:"comment_count"`
}

// UploadRequest describes a video upload. A non-zero PublishAt schedules
// the video: it is uploaded private and flips public at that time.
type UploadRequest struct {
	VideoFile     string
	ThumbnailFile string
	Title         string
	Description   string
	Tags          []string
	CategoryID    string
	PublishAt     time.Time
}

// UploadResult reports what the platform accepted.
type UploadResult struct {
	VideoID       string `json:"video_id"`
	PrivacyStatus string `json:"status"`
	PublishAt     string `json:"publish_time,omitempty"`
	UploadStatus  string `json:"upload_status"`
}

// Client holds an API-key service for public reads and, when credentials
// are present, an OAuth service for channel writes.
type Client struct {
	public  *yt.Service
	authed  *yt.Service
	authErr error
	log     *logging.Logger
}

// New builds the services available from cfg. Missing credentials are not
// an error here; the operations that need them report a ConfigError.
func New(ctx context.Context, cfg config.YouTubeConfig, log *logging.Logger) (*Client, error) {
	c := &Client{log: log.Sub("youtube")}

	var endpoint []option.ClientOption
	if cfg.Endpoint != "" {
		ep := cfg.Endpoint
		if !strings.HasSuffix(ep, "/") {
			ep += "/"
		}
		endpoint = append(endpoint, option.WithEndpoint(ep))
	}

	if cfg.APIKey != "" {
		svc, err := yt.NewService(ctx, append(endpoint, option.WithAPIKey(cfg.APIKey))...)
		if err != nil {
			return nil, fmt.Errorf("unable to create YouTube service: %w", err)
		}
		c.public = svc
	}

	httpClient, err := oauthHTTPClient(ctx, cfg)
	if err != nil {
		c.authErr = err
		c.log.Debug().Err(err).Msg("oauth unavailable")
		return c, nil
	}
	svc, err := yt.NewService(ctx, append(endpoint, option.WithHTTPClient(httpClient))...)
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	c.authed = svc
	return c, nil
}

// NewWithServices builds a client from prepared services. Either may be nil.
func NewWithServices(public, authed *yt.Service, log *logging.Logger) *Client {
	c := &Client{public: public, authed: authed, log: log.Sub("youtube")}
	if authed == nil {
		c.authErr = domain.MissingConfig("YOUTUBE_CLIENT_SECRETS_FILE")
	}
	return c
}

func oauthHTTPClient(ctx context.Context, cfg config.YouTubeConfig) (*http.Client, error) {
	oauthCfg, err := OAuthConfig(cfg.ClientSecretsFile)
	if err != nil {
		return nil, err
	}
	tok, err := TokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, &domain.ConfigError{
			Key:     "youtube.tokenFile",
			Message: fmt.Sprintf("no auth token found at %s - run 'tubecrew youtube auth' first", cfg.TokenFile),
		}
	}
	return oauthCfg.Client(ctx, tok), nil
}

// CanWrite reports whether OAuth credentials are loaded.
func (c *Client) CanWrite() bool { return c.authed != nil }

// reader prefers the OAuth service so private videos are visible.
func (c *Client) reader() (*yt.Service, error) {
	if c.authed != nil {
		return c.authed, nil
	}
	if c.public != nil {
		return c.public, nil
	}
	return nil, domain.MissingConfig("YOUTUBE_API_KEY")
}

func (c *Client) writer() (*yt.Service, error) {
	if c.authed != nil {
		return c.authed, nil
	}
	if c.authErr != nil {
		return nil, c.authErr
	}
	return nil, domain.MissingConfig("YOUTUBE_CLIENT_SECRETS_FILE")
}

// VideoStatistics fetches the public counters for one video.
func (c *Client) VideoStatistics(ctx context.Context, videoID string) (*Stats, error) {
	svc, err := c.reader()
	if err != nil {
		return nil, err
	}

	resp, err := svc.Videos.List([]string{"snippet", "statistics"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, toUpstreamError(err)
	}
	if len(resp.Items) == 0 {
		return nil, &domain.UpstreamError{Service: "youtube", Status: http.StatusNotFound, Body: fmt.Sprintf("video %s not found", videoID)}
	}

	v := resp.Items[0]
	s := &Stats{VideoID: v.Id}
	if v.Snippet != nil {
		s.Title = v.Snippet.Title
	}
	if v.Statistics != nil {
		s.ViewCount = v.Statistics.ViewCount
		s.LikeCount = v.Statistics.LikeCount
		s.CommentCount = v.Statistics.CommentCount
	}
	return s, nil
}

// TrendingTitles lists titles from the most-popular chart. An empty
// category means all categories.
func (c *Client) TrendingTitles(ctx context.Context, region, category string, maxResults int64) ([]string, error) {
	svc, err := c.reader()
	if err != nil {
		return nil, err
	}

	call := svc.Videos.List([]string{"snippet"}).Chart("mostPopular").RegionCode(region).MaxResults(maxResults)
	if category != "" {
		call = call.VideoCategoryId(category)
	}
	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, toUpstreamError(err)
	}

	titles := make([]string, 0, len(resp.Items))
	for _, v := range resp.Items {
		if v.Snippet != nil && v.Snippet.Title != "" {
			titles = append(titles, v.Snippet.Title)
		}
	}
	return titles, nil
}

// Upload sends a video file with its metadata and optional thumbnail.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	svc, err := c.writer()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(req.VideoFile)
	if err != nil {
		return nil, domain.Invalid("video_file", "cannot open %s: %v", req.VideoFile, err)
	}
	defer f.Close()

	status := &yt.VideoStatus{PrivacyStatus: "public"}
	if !req.PublishAt.IsZero() {
		status.PrivacyStatus = "private" // must be private to schedule
		status.PublishAt = req.PublishAt.UTC().Format(time.RFC3339)
	}

	video := &yt.Video{
		Snippet: &yt.VideoSnippet{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			CategoryId:  req.CategoryID,
		},
		Status: status,
	}

	c.log.Info().Str("title", req.Title).Str("publishAt", status.PublishAt).Msg("uploading video")

	uploaded, err := svc.Videos.Insert([]string{"snippet", "status"}, video).Media(f).Context(ctx).Do()
	if err != nil {
		return nil, toUpstreamError(err)
	}

	if req.ThumbnailFile != "" {
		if err := c.setThumbnail(ctx, svc, uploaded.Id, req.ThumbnailFile); err != nil {
			return nil, err
		}
	}

	res := &UploadResult{VideoID: uploaded.Id, PrivacyStatus: status.PrivacyStatus, PublishAt: status.PublishAt}
	if uploaded.Status != nil {
		if uploaded.Status.PrivacyStatus != "" {
			res.PrivacyStatus = uploaded.Status.PrivacyStatus
		}
		if uploaded.Status.PublishAt != "" {
			res.PublishAt = uploaded.Status.PublishAt
		}
		res.UploadStatus = uploaded.Status.UploadStatus
	}
	return res, nil
}

func (c *Client) setThumbnail(ctx context.Context, svc *yt.Service, videoID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return domain.Invalid("thumbnail_file", "cannot open %s: %v", path, err)
	}
	defer f.Close()

	if _, err := svc.Thumbnails.Set(videoID).Media(f).Context(ctx).Do(); err != nil {
		return toUpstreamError(err)
	}
	return nil
}

// AppendDescription adds text to the end of a video's description.
func (c *Client) AppendDescription(ctx context.Context, videoID, text string) error {
	svc, err := c.writer()
	if err != nil {
		return err
	}

	resp, err := svc.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return toUpstreamError(err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return &domain.UpstreamError{Service: "youtube", Status: http.StatusNotFound, Body: fmt.Sprintf("video %s not found", videoID)}
	}

	v := resp.Items[0]
	desc := strings.TrimRight(v.Snippet.Description, "\n")
	if desc != "" {
		desc += "\n\n"
	}
	v.Snippet.Description = desc + text

	update := &yt.Video{Id: v.Id, Snippet: v.Snippet}
	if _, err := svc.Videos.Update([]string{"snippet"}, update).Context(ctx).Do(); err != nil {
		return toUpstreamError(err)
	}
	return nil
}

func toUpstreamError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		body := gerr.Message
		if body == "" {
			body = gerr.Body
		}
		return &domain.UpstreamError{Service: "youtube", Status: gerr.Code, Body: body, Err: err}
	}
	return &domain.UpstreamError{Service: "youtube", Err: err}
}
