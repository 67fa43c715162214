package models

import (
	"encoding/json"
	"time"
)

// SentimentLabel classifies a review body by polarity.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// UnknownProductHandle is the sentinel bucket for reviews whose raw record
// carries no recognizable product reference.
const UnknownProductHandle = "unknown_product"

// Review is the canonical, normalized review record. Immutable once created.
// CreatedAt is the zero time when the raw record carried no parsable
// timestamp; consumers decide per operation how to treat that.
type Review struct {
	TenantID      string    `json:"tenant_id"`
	ProductHandle string    `json:"product_handle"`
	Body          string    `json:"body"`
	Rating        float64   `json:"rating"`
	CreatedAt     time.Time `json:"created_at"`
}

// HasTimestamp reports whether the review carries a real creation time.
func (r Review) HasTimestamp() bool {
	return !r.CreatedAt.IsZero()
}

// HasContent reports whether the review has enough substance to be
// summarized. Reviews with neither body nor rating are excluded from
// aggregation.
func (r Review) HasContent() bool {
	return r.Body != "" || r.Rating != 0
}

// RawReview is an untyped review record as returned by the review provider.
// Field names vary across provider versions; the normalizer resolves them.
type RawReview struct {
	ProductHandle string      `json:"product_handle"`
	Handle        string      `json:"handle"`
	Product       *RawProduct `json:"product"`
	ProductTitle  string      `json:"product_title"`
	Body          string      `json:"body"`
	Review        string      `json:"review"`
	BodyHTML      string      `json:"body_html"`
	Title         string      `json:"title"`
	Rating        json.Number `json:"rating"`
	CreatedAt     string      `json:"created_at"`
}

// RawProduct is the nested product object some provider payloads embed.
type RawProduct struct {
	Handle string `json:"handle"`
	Title  string `json:"title"`
}

// EmotionVector holds coarse per-emotion counts derived from polarity.
// Surprise and disgust are carried for API stability but the classifier
// never sets them.
type EmotionVector struct {
	Joy      int `json:"joy"`
	Anger    int `json:"anger"`
	Sadness  int `json:"sadness"`
	Surprise int `json:"surprise"`
	Disgust  int `json:"disgust"`
}

// Add accumulates another vector into this one.
func (e *EmotionVector) Add(other EmotionVector) {
	e.Joy += other.Joy
	e.Anger += other.Anger
	e.Sadness += other.Sadness
	e.Surprise += other.Surprise
	e.Disgust += other.Disgust
}
