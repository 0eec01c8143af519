package content

import "strings"

const MaxCompleteness = 100

// Metadata holds the optional descriptive fields of an upload keyed by field name.
type Metadata map[string]string

func (m Metadata) Has(field string) bool {
	if m == nil {
		return false
	}
	return strings.TrimSpace(m[field]) != ""
}

func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type fieldPoints struct {
	field  string
	points int
}

// Point tables are intentionally separate per kind; the values differ.
var (
	imageCompleteness = []fieldPoints{
		{"prompt", 30},
		{"negativePrompt", 15},
		{"model", 15},
		{"modelLink", 10},
		{"resolution", 10},
		{"seed", 10},
		{"steps", 10},
		{"sampler", 5},
		{"cfgScale", 5},
	}
	videoCompleteness = []fieldPoints{
		{"prompt", 30},
		{"model", 20},
		{"modelLink", 10},
		{"resolution", 15},
		{"fps", 10},
		{"seed", 10},
		{"steps", 5},
	}
	musicCompleteness = []fieldPoints{
		{"prompt", 35},
		{"model", 20},
		{"modelLink", 10},
		{"genre", 15},
		{"bpm", 10},
		{"lyrics", 10},
	}
)

func completenessTable(kind Kind) []fieldPoints {
	switch kind {
	case KindImage:
		return imageCompleteness
	case KindVideo:
		return videoCompleteness
	case KindMusic:
		return musicCompleteness
	default:
		return nil
	}
}

// Completeness scores how much optional metadata is filled in, 0..100.
func Completeness(kind Kind, m Metadata) int {
	total := 0
	for _, fp := range completenessTable(kind) {
		if m.Has(fp.field) {
			total += fp.points
		}
	}
	if total > MaxCompleteness {
		return MaxCompleteness
	}
	return total
}
