package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"coinchat-backend/internal/models"
)

var (
	ErrInvalidYouTubeURL = errors.New("invalid YouTube URL")
	ErrVideoNotFound     = errors.New("video not found")
)

var youtubeRegex = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:.*&)?v=|embed/|shorts/|v/)|youtu\.be/)([\w-]{11})`)

// ExtractVideoID returns the 11 character video id of a YouTube URL.
func ExtractVideoID(rawURL string) (string, error) {
	m := youtubeRegex.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", ErrInvalidYouTubeURL
	}
	return m[1], nil
}

type videoFetcher interface {
	GetVideoContext(ctx context.Context, url string) (*yt.Video, error)
}

type YouTubeService struct {
	videos       videoFetcher
	captionWords func(videoID string) (int, error)
	now          func() time.Time
	logger       *zap.Logger
}

func NewYouTubeService(logger *zap.Logger) *YouTubeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	transcriptAPI := ytapi.NewYouTubeTranscriptApi()

	return &YouTubeService{
		videos: &yt.Client{},
		captionWords: func(videoID string) (int, error) {
			transcript, err := transcriptAPI.GetTranscript(videoID, []string{"en", "en-US", "en-GB"})
			if err != nil {
				// Fallback: request any available language
				transcript, err = transcriptAPI.GetTranscript(videoID, nil)
				if err != nil {
					return 0, err
				}
			}
			words := 0
			for _, entry := range transcript.Entries {
				words += len(strings.Fields(entry.Text))
			}
			return words, nil
		},
		now:    time.Now,
		logger: logger,
	}
}

// Analytics fetches video metadata and caption availability concurrently and
// derives engagement metrics from them.
func (s *YouTubeService) Analytics(ctx context.Context, rawURL string) (*models.AnalyticsResponse, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	var (
		video    *yt.Video
		captions int
		hasCaps  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.videos.GetVideoContext(gctx, videoID)
		if err != nil {
			s.logger.Info("YouTube metadata lookup failed", zap.String("video_id", videoID), zap.Error(err))
			return fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
		}
		video = v
		return nil
	})
	g.Go(func() error {
		// The transcript client takes no context.
		if gctx.Err() != nil {
			return nil
		}
		// Missing captions only change the caption fields.
		n, err := s.captionWords(videoID)
		if err != nil {
			s.logger.Debug("No captions available", zap.String("video_id", videoID), zap.Error(err))
			return nil
		}
		captions, hasCaps = n, true
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now()
	return &models.AnalyticsResponse{
		Platform:  "YouTube",
		Analytics: buildAnalytics(rawURL, video, hasCaps, captions, now),
		FetchedAt: now,
	}, nil
}

func buildAnalytics(rawURL string, v *yt.Video, hasCaptions bool, captionWords int, now time.Time) models.YouTubeAnalytics {
	durationSec := int(v.Duration / time.Second)

	ageDays := 0
	if !v.PublishDate.IsZero() && now.After(v.PublishDate) {
		ageDays = int(now.Sub(v.PublishDate).Hours() / 24)
	}

	return models.YouTubeAnalytics{
		VideoID:           v.ID,
		URL:               rawURL,
		Title:             v.Title,
		Description:       v.Description,
		ChannelTitle:      v.Author,
		ChannelID:         v.ChannelID,
		PublishedAt:       v.PublishDate,
		DurationSeconds:   durationSec,
		DurationFormatted: formatDuration(durationSec),
		ViewCount:         v.Views,
		ViewsPerDay:       round2(float64(v.Views) / float64(max(ageDays, 1))),
		VideoAgeDays:      ageDays,
		IsRecent:          ageDays <= 7,
		IsTrending:        v.Views > 10000 && ageDays <= 3,
		Thumbnail:         bestThumbnail(v),
		Caption:           hasCaptions,
		CaptionWordCount:  captionWords,
	}
}

func formatDuration(sec int) string {
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec%3600)/60, sec%60)
}

func bestThumbnail(v *yt.Video) string {
	best := ""
	var bestWidth uint
	for _, t := range v.Thumbnails {
		if t.Width >= bestWidth {
			best, bestWidth = t.URL, t.Width
		}
	}
	if best == "" {
		best = "https://img.youtube.com/vi/" + v.ID + "/maxresdefault.jpg"
	}
	return best
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
