package response

import (
	"popularity-engine/internal/usecase/queries"
)

type BoostResponse struct {
	State        string  `json:"state"`
	Initial      float64 `json:"initial"`
	Kind         *string `json:"kind,omitempty"`
	ActivatedAt  *int64  `json:"activated_at,omitempty"`
	ExpiresAt    *int64  `json:"expires_at,omitempty"`
	Contribution float64 `json:"contribution"`
}

type PopularItemResponse struct {
	Rank              int           `json:"rank"`
	ID                string        `json:"id"`
	OwnerID           string        `json:"owner_id"`
	CreatedAt         int64         `json:"created_at"`
	Score             float64       `json:"score"`
	Clicks            int           `json:"clicks"`
	LikesCount        int           `json:"likes_count"`
	Views             int           `json:"views"`
	CompletenessScore int           `json:"completeness_score"`
	Boost             BoostResponse `json:"boost"`
}

type PopularPageResponse struct {
	Kind     string                 `json:"kind"`
	Mode     string                 `json:"mode"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
	Total    int                    `json:"total"`
	Items    []*PopularItemResponse `json:"items"`
}

type ItemScoreResponse struct {
	ID          string        `json:"id"`
	Kind        string        `json:"kind"`
	LiveScore   float64       `json:"live_score"`
	StoredScore float64       `json:"stored_score"`
	InSync      bool          `json:"in_sync"`
	Boost       BoostResponse `json:"boost"`
	At          int64         `json:"at"`
}

func fromBoostView(v queries.BoostView) BoostResponse {
	return BoostResponse{
		State:        v.State,
		Initial:      v.Initial,
		Kind:         v.Kind,
		ActivatedAt:  unixPtr(v.ActivatedAt),
		ExpiresAt:    unixPtr(v.ExpiresAt),
		Contribution: v.Contribution,
	}
}

func FromPopularPage(p *queries.PopularPage) *PopularPageResponse {
	items := make([]*PopularItemResponse, len(p.Items))
	for i, it := range p.Items {
		items[i] = &PopularItemResponse{
			Rank:              it.Rank,
			ID:                it.ID.String(),
			OwnerID:           it.OwnerID.String(),
			CreatedAt:         it.CreatedAt.Unix(),
			Score:             it.Score,
			Clicks:            it.Clicks,
			LikesCount:        it.LikesCount,
			Views:             it.Views,
			CompletenessScore: it.CompletenessScore,
			Boost:             fromBoostView(it.Boost),
		}
	}
	return &PopularPageResponse{
		Kind:     p.Kind,
		Mode:     p.Mode,
		Page:     p.Page,
		PageSize: p.PageSize,
		Total:    p.Total,
		Items:    items,
	}
}

func FromItemScore(v *queries.ItemScoreView) *ItemScoreResponse {
	return &ItemScoreResponse{
		ID:          v.ID.String(),
		Kind:        v.Kind,
		LiveScore:   v.LiveScore,
		StoredScore: v.StoredScore,
		InSync:      v.InSync,
		Boost:       fromBoostView(v.Boost),
		At:          v.At.Unix(),
	}
}
