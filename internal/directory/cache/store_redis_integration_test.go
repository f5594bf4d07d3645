//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"watershed/internal/directory/cache"
	"watershed/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = cache.NewRedis(s.redis.Client)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestMissThenRoundTrip() {
	ctx := context.Background()
	key := cache.Key("regulation", "greywater", "CA_CITY_SANTA_MONICA", "CA_STATE")

	_, ok, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.cache.Put(ctx, key, []byte(`{"legalStatus":"Regulated"}`), time.Hour))

	got, ok, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.True(ok)
	s.JSONEq(`{"legalStatus":"Regulated"}`, string(got))
}

func (s *RedisCacheSuite) TestExpiry() {
	ctx := context.Background()
	key := cache.Key("incentives", "rainwater", "CA_STATE")

	s.Require().NoError(s.cache.Put(ctx, key, []byte(`[]`), 200*time.Millisecond))

	_, ok, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.True(ok)

	time.Sleep(400 * time.Millisecond)

	_, ok, err = s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisCacheSuite) TestLastWriteWins() {
	ctx := context.Background()
	key := cache.Key("regulation", "greywater", "CA_STATE")

	s.Require().NoError(s.cache.Put(ctx, key, []byte(`1`), time.Hour))
	s.Require().NoError(s.cache.Put(ctx, key, []byte(`2`), time.Hour))

	got, ok, err := s.cache.Get(ctx, key)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]byte(`2`), got)
}
