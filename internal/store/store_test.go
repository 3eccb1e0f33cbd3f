package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetAndGetRoundTrip(t *testing.T) {
	s := New()
	s.Set("key", []byte("value"))

	got, ok := s.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", string(got))
}

func TestGetMissingKey(t *testing.T) {
	s := New()
	_, ok := s.Get("nope")
	assert.False(t, ok)
}

func TestSetOverwritesPriorExpiry(t *testing.T) {
	s := New()
	s.SetExpiring("key", []byte("v1"), 1)
	s.Set("key", []byte("v2"))

	fakeClock(s, time.Now().Add(time.Hour))
	got, ok := s.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "v2", string(got))
}

func TestSetExpiringExpiresAfterTTL(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	s := New()
	s.now = func() time.Time { return base }
	s.SetExpiring("key", []byte("value"), 100)

	s.now = func() time.Time { return base.Add(50 * time.Millisecond) }
	got, ok := s.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", string(got))

	s.now = func() time.Time { return base.Add(150 * time.Millisecond) }
	_, ok = s.Get("key")
	assert.False(t, ok)
}

func TestSetExpiringExactBoundaryExpires(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	s := New()
	s.now = func() time.Time { return base }
	s.SetExpiring("key", []byte("value"), 100)

	s.now = func() time.Time { return base.Add(100 * time.Millisecond) }
	_, ok := s.Get("key")
	assert.False(t, ok, "expiry is inclusive of the exact millisecond boundary")
}

func TestLenCountsExpiredEntriesToo(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	s := New()
	s.now = func() time.Time { return base }
	s.Set("a", []byte("1"))
	s.SetExpiring("b", []byte("2"), 1)

	s.now = func() time.Time { return base.Add(time.Hour) }
	assert.Equal(t, 2, s.Len())
}

func TestConcurrentAccessDoesNotRace(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.Set("key", []byte{byte(i)})
		}(i)
		go func() {
			defer wg.Done()
			s.Get("key")
		}()
	}
	wg.Wait()
}

func fakeClock(s *Store, t time.Time) {
	s.now = func() time.Time { return t }
}
