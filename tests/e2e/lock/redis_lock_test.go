//go:build e2e

package lock_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"popularity-engine/internal/domain/boost"
	"popularity-engine/internal/domain/content"
	"popularity-engine/internal/domain/user"
	"popularity-engine/internal/handler/dto/response"
	"popularity-engine/internal/infra/lock"
	"popularity-engine/internal/pkg/errs"
	"popularity-engine/tests/common/authtest"
	"popularity-engine/tests/common/builder"
	"popularity-engine/tests/common/dbtest"
	"popularity-engine/tests/common/httptest"
	"popularity-engine/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RedisLockSuite struct {
	e2e.SharedSuite
}

func (s *RedisLockSuite) SetupSuite() {
	s.WithRedis = true
	s.SharedSuite.SetupSuite()
	require.NotNil(s.T(), s.Redis, "redis client was not provided")
}

func (s *RedisLockSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	require.NoError(s.T(), s.Redis.FlushDB(context.Background()).Err())
}

func TestRedisLockSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(RedisLockSuite))
}

// =============================================================================
// TestRedisLocker
// =============================================================================

func (s *RedisLockSuite) TestRedisLocker() {
	s.Run("Normal case: two instances serialize the same owner", func() {
		t := s.T()
		// two lockers stand in for two API instances sharing one redis
		instances := []*lock.RedisLocker{
			lock.NewRedisLocker(s.Redis, 5*time.Second),
			lock.NewRedisLocker(s.Redis, 5*time.Second),
		}
		owner := uuid.New()

		var (
			inside  int32
			overlap atomic.Bool
			wg      sync.WaitGroup
		)
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				unlock, err := instances[i%2].Lock(ctx, owner)
				if !s.NoError(err) {
					return
				}
				if atomic.AddInt32(&inside, 1) > 1 {
					overlap.Store(true)
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				unlock()
			}()
		}
		wg.Wait()

		s.False(overlap.Load())
		keys, err := s.Redis.Keys(context.Background(), "popularity:owner-lock:*").Result()
		require.NoError(t, err)
		s.Empty(keys)
	})

	s.Run("Error case: waiter times out while the lock is held", func() {
		t := s.T()
		l := lock.NewRedisLocker(s.Redis, 5*time.Second)
		owner := uuid.New()

		unlock, err := l.Lock(context.Background(), owner)
		require.NoError(t, err)
		defer unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		_, err = l.Lock(ctx, owner)
		require.True(t, errs.Is(err, lock.ErrLockTimeout), "unexpected error: %v", err)
	})

	s.Run("Normal case: a lapsed holder cannot release its successor's lock", func() {
		t := s.T()
		short := lock.NewRedisLocker(s.Redis, 50*time.Millisecond)
		owner := uuid.New()

		staleUnlock, err := short.Lock(context.Background(), owner)
		require.NoError(t, err)
		time.Sleep(100 * time.Millisecond)

		l := lock.NewRedisLocker(s.Redis, 5*time.Second)
		unlock, err := l.Lock(context.Background(), owner)
		require.NoError(t, err)

		staleUnlock()
		n, err := s.Redis.Exists(context.Background(), "popularity:owner-lock:"+owner.String()).Result()
		require.NoError(t, err)
		s.Equal(int64(1), n)

		unlock()
		n, err = s.Redis.Exists(context.Background(), "popularity:owner-lock:"+owner.String()).Result()
		require.NoError(t, err)
		s.Zero(n)
	})
}

// =============================================================================
// TestRedeemWithRedisLock
// =============================================================================

func (s *RedisLockSuite) TestRedeemWithRedisLock() {
	s.Run("Concurrency: the cap holds with redis owner locks", func() {
		t := s.T()
		helper := authtest.NewJWTHelper(s.Config.JWT)
		_, adminToken := helper.NewSession(t, user.RoleAdmin)
		ownerID, token := helper.NewSession(t, user.RoleViewer)

		const attempts = 5
		couponIDs := make([]string, attempts)
		items := make([]*content.Item, attempts)
		for i := range attempts {
			reqBody := builder.NewCouponBuilder().WithOwner(ownerID).WithKind(boost.Kind7Day).BuildIssueRequestDTO()
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/admin/coupons", reqBody, adminToken)
			var issued response.CouponResponse
			httptest.AssertSuccessResponse(t, w, http.StatusCreated, &issued)
			couponIDs[i] = issued.ID

			items[i] = builder.NewItemBuilder().WithKind(content.KindMusic).WithOwner(ownerID).
				CreatedAtTime(time.Now().Add(-48 * time.Hour)).BuildDomain()
			dbtest.CreateTestItem(t, s.DB, items[i])
		}

		var (
			wg sync.WaitGroup
			ok atomic.Int32
		)
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				reqBody := builder.BuildRedeemRequestDTO(items[i].ID(), items[i].Kind())
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf("/api/coupons/%s/redeem", couponIDs[i]), reqBody, token)
				if w.Code == http.StatusOK {
					ok.Add(1)
				}
			}()
		}
		wg.Wait()

		s.Equal(int32(3), ok.Load())
		s.Equal(3, dbtest.CountActiveBoosts(t, s.DB, ownerID))
	})
}
