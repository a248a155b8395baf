package transform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunks(t *testing.T) {
	type window struct{ start, n int }
	var got []window
	for start, n := range chunks(250, 100) {
		got = append(got, window{start, n})
	}
	assert.Equal(t, []window{{0, 100}, {100, 100}, {200, 50}}, got)

	got = nil
	for start, n := range chunks(100, 100) {
		got = append(got, window{start, n})
	}
	assert.Equal(t, []window{{0, 100}}, got)

	got = nil
	for start, n := range chunks(0, 100) {
		got = append(got, window{start, n})
	}
	assert.Empty(t, got)
}

func TestRunner_Progress(t *testing.T) {
	ms, _ := newTestMS(t, 10) // 60 rows

	var updates [][2]int
	err := ms.InvertSubband(context.Background(), []string{"EF"},
		WithChunkSize(25),
		WithProgress(func(done, total int) {
			updates = append(updates, [2]int{done, total})
		}))
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{25, 60}, {50, 60}, {60, 60}}, updates)
}

func TestThrottle_FinalUpdateAlwaysDelivered(t *testing.T) {
	var got [][2]int
	p := Throttle(func(done, total int) {
		got = append(got, [2]int{done, total})
	}, 0) // zero rate: the initial burst token and the final update

	p(10, 30)
	p(20, 30)
	p(30, 30)
	assert.Equal(t, [][2]int{{10, 30}, {30, 30}}, got)
}

func TestRunner_Cancellation(t *testing.T) {
	ms, _ := newTestMS(t, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ms.PolSwap(ctx, "EF")
	require.ErrorIs(t, err, context.Canceled)
}
