//go:build unit

package components

import (
	"testing"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/popularity"
	"popularity-engine/internal/pkg/config"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestScoringFromConfig(t *testing.T) {
	t.Run("defaults match the domain tables", func(t *testing.T) {
		cfg := config.DefaultScoringConfig()

		if diff := cmp.Diff(popularity.DefaultWeights(), weightsFromConfig(cfg)); diff != "" {
			t.Errorf("weights mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(popularity.DefaultCatchUp(), catchUpFromConfig(cfg)); diff != "" {
			t.Errorf("catch-up mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("overrides reach the kind they name", func(t *testing.T) {
		cfg := config.DefaultScoringConfig()
		cfg.VideoView = 2
		cfg.MusicBoostFloor = 5

		assert.Equal(t, 2.0, weightsFromConfig(cfg).For(content.KindVideo).View)
		assert.Equal(t, 0.0, weightsFromConfig(cfg).For(content.KindImage).View)
		assert.Equal(t, 5.0, catchUpFromConfig(cfg)[content.KindMusic].Floor)
	})
}
