package popularity

import "popularity-engine/internal/domain/content"

type Weights struct {
	Click    float64
	Like     float64
	View     float64
	Complete float64
}

type WeightTable map[content.Kind]Weights

func DefaultWeights() WeightTable {
	return WeightTable{
		content.KindImage: {Click: 1.0, Like: 8.0, View: 0, Complete: 0.25},
		content.KindVideo: {Click: 1.0, Like: 8.0, View: 0.5, Complete: 0.25},
		content.KindMusic: {Click: 1.0, Like: 8.0, View: 0, Complete: 0.25},
	}
}

// For returns the kind's weights; an unknown kind scores zero rather than borrowing another table.
func (t WeightTable) For(kind content.Kind) Weights {
	return t[kind]
}

// CatchUp sizes the initial boost of a redemption relative to the current leader of
// the item's kind: initial = max(Floor, Ratio * maxStoredScore).
type CatchUp struct {
	Ratio float64
	Floor float64
}

type CatchUpTable map[content.Kind]CatchUp

func DefaultCatchUp() CatchUpTable {
	return CatchUpTable{
		content.KindImage: {Ratio: 1.0, Floor: 100},
		content.KindVideo: {Ratio: 0.9, Floor: 100},
		content.KindMusic: {Ratio: 1.1, Floor: 80},
	}
}

func (t CatchUpTable) InitialBoost(kind content.Kind, maxStoredScore float64) float64 {
	c := t[kind]
	if maxStoredScore < 0 {
		maxStoredScore = 0
	}
	v := maxStoredScore * c.Ratio
	if v < c.Floor {
		v = c.Floor
	}
	return v
}
