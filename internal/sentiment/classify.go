package sentiment

import "github.com/reviewpulse/reviewpulse/pkg/models"

// Polarity thresholds. Scores inside (-0.1, 0.1] are neutral.
const (
	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// Classifier maps review text to a sentiment label and emotion vector
// using a polarity scorer and fixed thresholds.
type Classifier struct {
	scorer Scorer
}

// NewClassifier creates a Classifier over the given scorer.
func NewClassifier(scorer Scorer) *Classifier {
	return &Classifier{scorer: scorer}
}

// Classify returns the sentiment label and the underlying polarity score.
// The label is a pure function of the score, so classifying the same text
// twice always agrees.
func (c *Classifier) Classify(text string) (models.SentimentLabel, float64) {
	score := c.scorer.Score(text)
	return LabelFor(score), score
}

// Emotions derives the coarse emotion vector for a text. Joy tracks
// positive polarity; anger and sadness track negative polarity. Surprise
// and disgust are always zero; emotion detection is intentionally coarse.
func (c *Classifier) Emotions(text string) models.EmotionVector {
	return EmotionsFor(c.scorer.Score(text))
}

// LabelFor maps a polarity score to its sentiment label.
func LabelFor(score float64) models.SentimentLabel {
	switch {
	case score > positiveThreshold:
		return models.SentimentPositive
	case score < negativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// EmotionsFor maps a polarity score to the coarse emotion vector.
func EmotionsFor(score float64) models.EmotionVector {
	var v models.EmotionVector
	if score > positiveThreshold {
		v.Joy = 1
	}
	if score < negativeThreshold {
		v.Anger = 1
		v.Sadness = 1
	}
	return v
}
