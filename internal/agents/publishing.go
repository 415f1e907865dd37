package agents

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/soyeahso/tubecrew/internal/domain"
	"github.com/soyeahso/tubecrew/internal/logging"
	"github.com/soyeahso/tubecrew/internal/youtube"
)

const defaultSEOCategory = "Education"

// DefaultRegions are the markets used when none are given.
var DefaultRegions = []string{"US", "GB", "AU"}

// peakHourUTC approximates the evening viewing peak of each market.
var peakHourUTC = map[string]int{
	"US": 23,
	"CA": 23,
	"GB": 18,
	"DE": 17,
	"FR": 17,
	"IN": 14,
	"JP": 10,
	"HK": 11,
	"TW": 11,
	"SG": 11,
	"AU": 9,
}

const defaultPeakHourUTC = 19

// Card setup messages.
const (
	CardsOK     = "已成功设置卡片和片尾画面"
	CardsFailed = "设置失败"
)

// SEORequest asks for search-optimized metadata.
type SEORequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Transcript  string `json:"transcript"`
	Category    string `json:"category,omitempty"`
}

// ScheduleRequest asks for an upload, optionally scheduled.
type ScheduleRequest struct {
	VideoFile     string         `json:"video_file"`
	Metadata      map[string]any `json:"metadata"`
	ThumbnailFile string         `json:"thumbnail_file,omitempty"`
	PublishTime   *time.Time     `json:"publish_time,omitempty"`
}

// OptimalTimeRequest asks when to publish.
type OptimalTimeRequest struct {
	Category      string   `json:"category"`
	TargetRegions []string `json:"target_regions,omitempty"`
}

// CardsRequest asks for related videos to be linked from a video.
type CardsRequest struct {
	VideoID       string   `json:"video_id"`
	RelatedVideos []string `json:"related_videos"`
}

// CardsResult reports the outcome of a cards setup.
type CardsResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Publishing prepares metadata and uploads videos.
type Publishing struct {
	tk  Toolkit
	log *logging.Logger
}

// NewPublishing builds the agent. Each operation checks the clients it
// needs.
func NewPublishing(tk Toolkit) (*Publishing, error) {
	return &Publishing{tk: tk, log: tk.logger(domain.AgentPublishing)}, nil
}

// SEOMetadata asks the completion API for metadata and decodes the JSON
// reply, falling back to {"raw": text}.
func (p *Publishing) SEOMetadata(ctx context.Context, req SEORequest) (map[string]any, error) {
	if err := p.tk.require(DepLLM); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.Invalid("title", "must not be empty")
	}
	category := req.Category
	if category == "" {
		category = defaultSEOCategory
	}

	text, err := generate(ctx, p.tk.LLM, p.log, "seo", seoPrompt(req.Title, req.Description, req.Transcript, category))
	if err != nil {
		return nil, err
	}
	return parseObject(text), nil
}

// ScheduleUpload uploads the video described by req.
func (p *Publishing) ScheduleUpload(ctx context.Context, req ScheduleRequest) (*youtube.UploadResult, error) {
	if err := p.tk.require(DepYouTube); err != nil {
		return nil, err
	}
	upload, err := uploadFromMetadata(req)
	if err != nil {
		return nil, err
	}

	res, err := p.tk.YouTube.Upload(ctx, upload)
	if err != nil {
		return nil, err
	}

	p.log.Info().
		Str("videoId", res.VideoID).
		Str("status", res.PrivacyStatus).
		Str("publishAt", res.PublishAt).
		Msg("video uploaded")
	return res, nil
}

func uploadFromMetadata(req ScheduleRequest) (youtube.UploadRequest, error) {
	if strings.TrimSpace(req.VideoFile) == "" {
		return youtube.UploadRequest{}, domain.Invalid("video_file", "must not be empty")
	}

	title := stringField(req.Metadata, "title")
	if title == "" {
		return youtube.UploadRequest{}, domain.Invalid("metadata.title", "must not be empty")
	}

	upload := youtube.UploadRequest{
		VideoFile:     req.VideoFile,
		ThumbnailFile: req.ThumbnailFile,
		Title:         title,
		Description:   stringField(req.Metadata, "description"),
		Tags:          stringsField(req.Metadata, "tags"),
		CategoryID:    stringField(req.Metadata, "category_id", "categoryId"),
	}
	if req.PublishTime != nil {
		upload.PublishAt = *req.PublishTime
	}
	return upload, nil
}

// stringField returns the first of keys holding a string or number.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// stringsField accepts a list of strings or a comma-separated string.
func stringsField(m map[string]any, key string) []string {
	var out []string
	switch v := m[key].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	}
	return out
}

// OptimalPublishTime picks the soonest evening peak among the target
// markets. It is a heuristic and is tagged as mock.
func (p *Publishing) OptimalPublishTime(req OptimalTimeRequest) domain.Sourced[time.Time] {
	regions := req.TargetRegions
	if len(regions) == 0 {
		regions = DefaultRegions
	}

	now := p.tk.now().UTC()
	var best time.Time
	for _, r := range regions {
		next := nextPeak(now, strings.ToUpper(r))
		if best.IsZero() || next.Before(best) {
			best = next
		}
	}

	p.log.Debug().Strs("regions", regions).Time("optimal", best).Msg("publish time chosen")
	return domain.Mock(best, "heuristic peak hours; audience analytics not integrated")
}

func nextPeak(now time.Time, region string) time.Time {
	hour, ok := peakHourUTC[region]
	if !ok {
		hour = defaultPeakHourUTC
	}
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, time.UTC)
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// SetupCardsAndEndscreen links the related videos from the video's
// description. The Data API exposes no cards or end screen endpoints.
// Upstream failures are reported in the result rather than as an error.
func (p *Publishing) SetupCardsAndEndscreen(ctx context.Context, req CardsRequest) (CardsResult, error) {
	if strings.TrimSpace(req.VideoID) == "" {
		return CardsResult{}, domain.Invalid("video_id", "must not be empty")
	}
	if len(req.RelatedVideos) == 0 {
		return CardsResult{}, domain.Invalid("related_videos", "must not be empty")
	}
	if err := p.tk.require(DepYouTube); err != nil {
		return CardsResult{}, err
	}

	err := p.tk.YouTube.AppendDescription(ctx, req.VideoID, relatedBlock(req.RelatedVideos))
	if err != nil {
		if domain.IsClientError(err) {
			return CardsResult{}, err
		}
		p.log.Warn().Err(err).Str("videoId", req.VideoID).Msg("cards setup failed")
		return CardsResult{Success: false, Message: CardsFailed}, nil
	}
	return CardsResult{Success: true, Message: CardsOK}, nil
}

func relatedBlock(videos []string) string {
	var sb strings.Builder
	sb.WriteString("相关视频：")
	for _, v := range videos {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			v = fmt.Sprintf("https://www.youtube.com/watch?v=%s", v)
		}
		sb.WriteString("\n")
		sb.WriteString(v)
	}
	return sb.String()
}
