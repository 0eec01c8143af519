package content

// Engagement is the normalized set of counters the popularity formula reads.
type Engagement struct {
	Clicks            int
	LikesCount        int
	Views             int
	CompletenessScore int
}

// RawEngagement is what storage holds. Likes is the like set when the document keeps
// one (nil when absent); LikesCount is the denormalized counter used otherwise.
type RawEngagement struct {
	Clicks            int
	Likes             []string
	LikesCount        int
	Views             int
	CompletenessScore int
}

func NormalizeEngagement(kind Kind, raw RawEngagement) Engagement {
	likes := raw.LikesCount
	if raw.Likes != nil {
		likes = len(raw.Likes)
	}
	views := 0
	if kind.HasViews() {
		views = nonNegative(raw.Views)
	}
	return Engagement{
		Clicks:            nonNegative(raw.Clicks),
		LikesCount:        nonNegative(likes),
		Views:             views,
		CompletenessScore: clampPercent(raw.CompletenessScore),
	}
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxCompleteness {
		return MaxCompleteness
	}
	return v
}
