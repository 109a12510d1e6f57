package marketing

import (
	"fmt"
	"sync"
	"time"
)

// TickInterval is how often the marquee advances by one card.
const TickInterval = 700 * time.Millisecond

// Direction is the scroll direction of the strip.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Image is one side of a card.
type Image struct {
	Source string
	Alt    string
}

// Pair is a flip card: Front is the before shot, Back the after shot.
type Pair struct {
	Front Image
	Back  Image
}

// Card is a visible slot in the marquee window.
type Card struct {
	Index   int
	Flipped bool
	Label   string
	Caption string
}

const (
	mannanBase       = "assets/Mannan_Base.jpeg"
	mannanStyleCount = 14
)

var galleryImages = []Image{
	{Source: "assets/Najeeb - ur - Rehman - Raja.png", Alt: "Traditional Ethnic Wear"},
	{Source: "assets/pic-1.jpeg", Alt: "Traditional Ethnic Wear"},
	{Source: "assets/pic-2.jpeg", Alt: "Casual Street Style"},
	{Source: "assets/pic-3.jpeg", Alt: "Smart Casual Professional"},
	{Source: "assets/user-1.jpg", Alt: "User 1"},
	{Source: "assets/user-2.png", Alt: "User 2"},
	{Source: "assets/user-3.jpg", Alt: "User 3"},
	{Source: "assets/user-4.png", Alt: "User 4"},
	{Source: "assets/user-5.jpg", Alt: "User 5"},
	{Source: "assets/user-6.png", Alt: "User 6"},
	{Source: "assets/user-7.webp", Alt: "User 7"},
	{Source: "assets/user-8.png", Alt: "User 8"},
	{Source: "assets/user-9.jpg", Alt: "User 9"},
	{Source: "assets/user-10.png", Alt: "User 10"},
	{Source: "assets/user-11.jpg", Alt: "User 11"},
	{Source: "assets/user-12.png", Alt: "User 12"},
	{Source: "assets/user-13.jpg", Alt: "User 13"},
	{Source: "assets/user-14.png", Alt: "User 14"},
	{Source: "assets/user-15.webp", Alt: "User 15"},
	{Source: "assets/user-16.png", Alt: "User 16"},
	{Source: "assets/user-19.jpg", Alt: "User 19"},
	{Source: "assets/user-20.png", Alt: "User 20"},
}

// DefaultPairs returns the transformation series followed by the gallery
// images paired two at a time.
func DefaultPairs() []Pair {
	pairs := make([]Pair, 0, mannanStyleCount+len(galleryImages)/2+1)
	for i := 1; i <= mannanStyleCount; i++ {
		pairs = append(pairs, Pair{
			Front: Image{Source: mannanBase, Alt: "Base Image"},
			Back:  Image{Source: fmt.Sprintf("assets/Manna_new_style%d.png", i), Alt: fmt.Sprintf("Transformation Style %d", i)},
		})
	}
	return append(pairs, PairImages(galleryImages)...)
}

// PairImages groups images two by two. An odd tail is paired with the first
// image.
func PairImages(images []Image) []Pair {
	var pairs []Pair
	for i := 0; i < len(images); i += 2 {
		back := images[0]
		if i+1 < len(images) {
			back = images[i+1]
		}
		pairs = append(pairs, Pair{Front: images[i], Back: back})
	}
	return pairs
}

// Marquee is a looping strip of flip cards. The strip is conceptually
// duplicated so the window wraps without a seam. It is safe for concurrent
// use.
type Marquee struct {
	mu        sync.Mutex
	pairs     []Pair
	flipped   []bool
	offset    int
	direction Direction
	paused    bool
}

// NewMarquee returns a marquee over pairs scrolling right.
func NewMarquee(pairs []Pair) *Marquee {
	return &Marquee{
		pairs:     pairs,
		flipped:   make([]bool, len(pairs)),
		direction: DirectionRight,
	}
}

// Len returns the number of distinct cards.
func (m *Marquee) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pairs)
}

// SetDirection changes the scroll direction.
func (m *Marquee) SetDirection(d Direction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.direction = d
}

// Tick advances the strip by one card unless paused.
func (m *Marquee) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	strip := 2 * len(m.pairs)
	if m.paused || strip == 0 {
		return
	}
	step := 1
	if m.direction == DirectionRight {
		step = -1
	}
	m.offset = ((m.offset+step)%strip + strip) % strip
}

// Offset returns the current position within the doubled strip.
func (m *Marquee) Offset() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset
}

// Pause stops Tick from moving the strip.
func (m *Marquee) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = true
}

// Resume undoes Pause.
func (m *Marquee) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = false
}

// Paused reports whether the strip is paused.
func (m *Marquee) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// Flip shows the back (true) or front (false) of card i. Out of range
// indexes are ignored.
func (m *Marquee) Flip(i int, flipped bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.flipped) {
		return
	}
	m.flipped[i] = flipped
}

// Window returns width consecutive cards starting at the current offset.
func (m *Marquee) Window(width int) []Card {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.pairs)
	if n == 0 || width <= 0 {
		return nil
	}
	cards := make([]Card, 0, width)
	for i := 0; i < width; i++ {
		idx := (m.offset + i) % n
		pair := m.pairs[idx]
		card := Card{Index: idx, Flipped: m.flipped[idx], Label: "Before", Caption: pair.Front.Alt}
		if card.Flipped {
			card.Label = "After"
			card.Caption = pair.Back.Alt
		}
		cards = append(cards, card)
	}
	return cards
}
