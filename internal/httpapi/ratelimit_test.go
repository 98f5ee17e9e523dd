package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func TestRateLimiter_RefillsOverWindow(t *testing.T) {
	clock := &fakeNow{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := newRateLimiter(2, time.Minute, clock.now)

	first := l.allow("a")
	assert.True(t, first.allowed)
	assert.Equal(t, 1, first.remaining)
	assert.Equal(t, 30, first.resetSeconds())

	assert.True(t, l.allow("a").allowed)

	denied := l.allow("a")
	assert.False(t, denied.allowed)
	assert.Equal(t, 0, denied.remaining)
	assert.Equal(t, 30, denied.retryAfterSeconds())

	// Just over half the window refills one of the two tokens
	clock.t = clock.t.Add(31 * time.Second)
	assert.True(t, l.allow("a").allowed)
	assert.False(t, l.allow("a").allowed)
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	clock := &fakeNow{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := newRateLimiter(1, time.Minute, clock.now)

	assert.True(t, l.allow("a").allowed)
	assert.False(t, l.allow("a").allowed)
	assert.True(t, l.allow("b").allowed)
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	clock := &fakeNow{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := newRateLimiter(5, time.Minute, clock.now)

	l.allow("a")
	l.allow("b")
	assert.Len(t, l.clients, 2)

	clock.t = clock.t.Add(2 * time.Minute)
	l.allow("c")

	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "c")
}

func TestRateLimiter_Disabled(t *testing.T) {
	l := newRateLimiter(0, time.Minute, time.Now)

	for range 10 {
		assert.True(t, l.allow("a").allowed)
	}
	assert.Empty(t, l.clients)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"3", 3},
		{" 4 ", 4},
		{"2.9", 2},
		{"-7", -7},
		{"1e2", 100},
		{"NaN", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseNumber(tt.raw), tt.raw)
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("12")
	assert.NoError(t, err)
	assert.Equal(t, 12, id)

	id, err = parseID("0")
	assert.NoError(t, err)
	assert.Equal(t, 0, id)

	_, err = parseID("twelve")
	assert.Error(t, err)
}
