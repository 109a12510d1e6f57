package marketing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPairs(t *testing.T) {
	t.Parallel()

	pairs := DefaultPairs()
	require.Len(t, pairs, mannanStyleCount+len(galleryImages)/2)
	assert.Equal(t, "Base Image", pairs[0].Front.Alt)
	assert.Equal(t, "Transformation Style 1", pairs[0].Back.Alt)
	assert.Equal(t, "Transformation Style 14", pairs[13].Back.Alt)
	assert.Equal(t, "Traditional Ethnic Wear", pairs[14].Front.Alt)
}

func TestPairImagesOddTail(t *testing.T) {
	t.Parallel()

	images := []Image{{Alt: "a"}, {Alt: "b"}, {Alt: "c"}}
	pairs := PairImages(images)
	require.Len(t, pairs, 2)
	assert.Equal(t, "c", pairs[1].Front.Alt)
	assert.Equal(t, "a", pairs[1].Back.Alt)
	assert.Empty(t, PairImages(nil))
}

func TestTickWrapsDoubledStrip(t *testing.T) {
	t.Parallel()

	m := NewMarquee(PairImages([]Image{{Alt: "a"}, {Alt: "b"}, {Alt: "c"}, {Alt: "d"}}))
	require.Equal(t, 2, m.Len())

	m.Tick()
	assert.Equal(t, 3, m.Offset(), "right scroll moves backwards through the strip")

	m.SetDirection(DirectionLeft)
	for range 5 {
		m.Tick()
	}
	assert.Equal(t, 0, m.Offset())
}

func TestPauseStopsTicks(t *testing.T) {
	t.Parallel()

	m := NewMarquee(DefaultPairs())
	m.Pause()
	m.Tick()
	assert.True(t, m.Paused())
	assert.Zero(t, m.Offset())

	m.Resume()
	m.Tick()
	assert.NotZero(t, m.Offset())
}

func TestWindowShowsFlippedCaption(t *testing.T) {
	t.Parallel()

	m := NewMarquee(DefaultPairs())
	m.Flip(1, true)
	m.Flip(99, true)

	cards := m.Window(3)
	require.Len(t, cards, 3)
	assert.Equal(t, "Before", cards[0].Label)
	assert.Equal(t, "After", cards[1].Label)
	assert.Equal(t, "Transformation Style 2", cards[1].Caption)

	m.Flip(1, false)
	assert.Equal(t, "Base Image", m.Window(2)[1].Caption)
}

func TestWindowWrapsAround(t *testing.T) {
	t.Parallel()

	m := NewMarquee(PairImages([]Image{{Alt: "a"}, {Alt: "b"}, {Alt: "c"}, {Alt: "d"}}))
	cards := m.Window(5)
	require.Len(t, cards, 5)
	assert.Equal(t, []int{0, 1, 0, 1, 0}, []int{cards[0].Index, cards[1].Index, cards[2].Index, cards[3].Index, cards[4].Index})
	assert.Nil(t, NewMarquee(nil).Window(3))
}

func TestContent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Your Wardrobe,", "Reimagined"}, DefaultHero().Title)
	steps := Steps()
	require.Len(t, steps, 3)
	assert.Equal(t, "Get Perfect Matches", steps[2].Title)
	assert.Len(t, DefaultFooter().Explore, 3)
	assert.Equal(t, "© 2025 LibaasAI. Crafted with passion for Pakistani fashion.", Copyright(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
