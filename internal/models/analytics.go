package models

import "time"

type AnalyticsRequest struct {
	URL string `json:"url"`
}

type AnalyticsResponse struct {
	Platform  string           `json:"platform"`
	Analytics YouTubeAnalytics `json:"analytics"`
	FetchedAt time.Time        `json:"fetched_at"`
}

type YouTubeAnalytics struct {
	VideoID           string    `json:"video_id"`
	URL               string    `json:"url"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ChannelTitle      string    `json:"channel_title"`
	ChannelID         string    `json:"channel_id"`
	PublishedAt       time.Time `json:"published_at"`
	DurationSeconds   int       `json:"duration_seconds"`
	DurationFormatted string    `json:"duration_formatted"`
	ViewCount         int       `json:"view_count"`
	ViewsPerDay       float64   `json:"views_per_day"`
	VideoAgeDays      int       `json:"video_age_days"`
	IsRecent          bool      `json:"is_recent"`
	IsTrending        bool      `json:"is_trending_candidate"`
	Thumbnail         string    `json:"thumbnail"`
	Caption           bool      `json:"caption"`
	CaptionWordCount  int       `json:"caption_word_count"`
}
