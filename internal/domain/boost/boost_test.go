//go:build unit

package boost_test

import (
	"errors"
	"testing"
	"time"

	"popularity-engine/internal/domain/boost"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func TestDecayFactor(t *testing.T) {
	cases := []struct {
		name    string
		elapsed time.Duration
		want    float64
	}{
		{name: "at activation", elapsed: 0, want: 1},
		{name: "negative elapsed clamps to full", elapsed: -time.Hour, want: 1},
		{name: "half way", elapsed: 5 * time.Hour, want: 0.5},
		{name: "end of window", elapsed: 10 * time.Hour, want: 0},
		{name: "after window", elapsed: 48 * time.Hour, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, boost.DecayFactor(tc.elapsed), 1e-9)
		})
	}
}

func TestContribution(t *testing.T) {
	t.Run("never decays upward and reaches zero at the window end", func(t *testing.T) {
		b := boost.None().Activate(137.3, boost.Kind30Day, t0)
		prev := b.Contribution(t0.Add(-100*time.Hour), t0)
		assert.Equal(t, 137.3, prev)
		for m := 1; m <= 14*60; m++ {
			now := t0.Add(time.Duration(m) * time.Minute)
			cur := b.Contribution(t0.Add(-100*time.Hour), now)
			require.LessOrEqual(t, cur, prev, "contribution rose at +%dm", m)
			prev = cur
		}
		assert.Zero(t, b.Contribution(t0, t0.Add(boost.DecayWindow)))
		assert.Zero(t, b.Contribution(t0, t0.Add(boost.DecayWindow+time.Second)))
	})

	t.Run("redeemed 25h after creation decays from the activation", func(t *testing.T) {
		activated := t0.Add(25 * time.Hour)
		b := boost.None().Activate(120, boost.Kind7Day, activated)

		require.NotNil(t, b.ActivatedAt())
		require.NotNil(t, b.ExpiresAt())
		assert.Equal(t, activated, *b.ActivatedAt())
		assert.Equal(t, t0.Add(35*time.Hour), *b.ExpiresAt())
		assert.Equal(t, 120.0, b.Contribution(t0, activated))
		assert.Equal(t, 60.0, b.Contribution(t0, t0.Add(30*time.Hour)))
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		b := boost.None().Activate(100, boost.KindRare, t0)
		// 100 * (1 - 1/30) = 96.666...
		assert.Equal(t, 96.7, b.Contribution(t0, t0.Add(20*time.Minute)))
	})

	t.Run("unboosted item decays from createdAt", func(t *testing.T) {
		b := boost.Reconstruct(50, nil, nil, nil)
		assert.Equal(t, 25.0, b.Contribution(t0, t0.Add(5*time.Hour)))
		assert.Equal(t, boost.StateInactive, b.State(t0))
	})

	t.Run("re-activation replaces the earlier window", func(t *testing.T) {
		first := boost.None().Activate(200, boost.Kind7Day, t0)
		second := first.Activate(80, boost.Kind7Day, t0.Add(10*time.Hour+time.Second))

		assert.Equal(t, 80.0, second.Contribution(t0, t0.Add(10*time.Hour+time.Second)))
		assert.Equal(t, 40.0, second.Contribution(t0, t0.Add(15*time.Hour+time.Second)))
		assert.Equal(t, t0.Add(20*time.Hour+time.Second), *second.ExpiresAt())
	})
}

func TestState(t *testing.T) {
	b := boost.None().Activate(10, boost.Kind7Day, t0)
	assert.Equal(t, boost.StateActive, b.State(t0))
	assert.True(t, b.IsActive(t0.Add(10*time.Hour-time.Nanosecond)))
	assert.Equal(t, boost.StateExpired, b.State(t0.Add(10*time.Hour)))
	assert.True(t, b.EverActivated())
	assert.False(t, boost.None().EverActivated())
}

func TestCheckEligibility(t *testing.T) {
	created := t0

	t.Run("too young reports the remaining wait", func(t *testing.T) {
		err := boost.None().CheckEligibility(created, created.Add(10*time.Hour))
		require.ErrorIs(t, err, boost.ErrItemTooYoung)

		var wait *boost.WaitError
		require.True(t, errors.As(err, &wait))
		assert.Equal(t, 14*time.Hour, wait.Remaining)
	})

	t.Run("eligible at exactly 24h", func(t *testing.T) {
		assert.NoError(t, boost.None().CheckEligibility(created, created.Add(24*time.Hour)))
	})

	t.Run("cooldown measured from the last activation", func(t *testing.T) {
		b := boost.None().Activate(10, boost.Kind7Day, created.Add(30*time.Hour))
		err := b.CheckEligibility(created, created.Add(40*time.Hour+time.Second))
		require.ErrorIs(t, err, boost.ErrCooldownActive)

		var wait *boost.WaitError
		require.True(t, errors.As(err, &wait))
		assert.Equal(t, 14*time.Hour-time.Second, wait.Remaining)

		assert.NoError(t, b.CheckEligibility(created, created.Add(54*time.Hour)))
	})

	t.Run("age is checked before cooldown", func(t *testing.T) {
		b := boost.None().Activate(10, boost.Kind7Day, created)
		err := b.CheckEligibility(created, created.Add(time.Hour))
		assert.ErrorIs(t, err, boost.ErrItemTooYoung)
	})
}

func TestKind(t *testing.T) {
	life, ok := boost.Kind7Day.ShelfLife()
	assert.True(t, ok)
	assert.Equal(t, 7*24*time.Hour, life)

	life, ok = boost.Kind30Day.ShelfLife()
	assert.True(t, ok)
	assert.Equal(t, 30*24*time.Hour, life)

	_, ok = boost.KindRare.ShelfLife()
	assert.False(t, ok)

	_, err := boost.ParseKind("weekly")
	assert.ErrorIs(t, err, boost.ErrInvalidKind)
}
