//go:build unit || e2e

package dbtest

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/coupon"
	"popularity-engine/internal/infra/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

var resetTables = []string{"images", "videos", "music", "coupons", "active_boosts"}

// CreateTestItem writes item as-is, stored score included.
func CreateTestItem(t *testing.T, db DBLike, item *content.Item) {
	t.Helper()
	err := repository.NewItemRepository(db, slog.Default()).Save(context.Background(), item)
	require.NoError(t, err)
}

func CreateTestCoupon(t *testing.T, db DBLike, c *coupon.Coupon) {
	t.Helper()
	err := repository.NewCouponRepository(db, slog.Default()).Save(context.Background(), c)
	require.NoError(t, err)
}

func CountActiveBoosts(t *testing.T, db DBLike, ownerID any) int {
	t.Helper()
	var n int
	err := db.QueryRow(context.Background(), "SELECT count(*) FROM active_boosts WHERE owner_id = $1", ownerID).Scan(&n)
	require.NoError(t, err)
	return n
}

// truncates every table the service owns
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, "TRUNCATE "+strings.Join(resetTables, ", ")+" RESTART IDENTITY CASCADE;")
	return err
}
