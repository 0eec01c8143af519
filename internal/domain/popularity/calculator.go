package popularity

import (
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
)

// Calculator is the single scoring formula shared by every content kind. Kinds differ
// only in the weight table handed in.
type Calculator struct {
	weights WeightTable
}

func NewCalculator(weights WeightTable) *Calculator {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Calculator{weights: weights}
}

// Popularity combines engagement and an already-decayed boost term. Only the boost
// term is rounded; the sum keeps full float precision.
func (c *Calculator) Popularity(kind content.Kind, e content.Engagement, boostContribution float64) float64 {
	w := c.weights.For(kind)
	base := float64(e.Clicks)*w.Click +
		float64(e.LikesCount)*w.Like +
		float64(e.Views)*w.View +
		float64(e.CompletenessScore)*w.Complete
	return base + boost.Round1(boostContribution)
}

// Score is the live score of item at now.
func (c *Calculator) Score(item *content.Item, now time.Time) float64 {
	contribution := item.Boost().Contribution(item.CreatedAt(), now)
	return c.Popularity(item.Kind(), item.Engagement(), contribution)
}

func (c *Calculator) Weights() WeightTable {
	return c.weights
}
