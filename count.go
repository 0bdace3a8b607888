package swatchgrid

import (
	"cmp"
	"fmt"
	"image"
	"slices"
)

// Entry is one row of a FrequencyTable.
type Entry struct {
	Color Color
	Count int
	// First is the raster index of the pixel where Color first appeared.
	First int
}

// FrequencyTable counts colors while remembering the order in which they were
// first seen. Ranking never depends on map iteration order.
type FrequencyTable struct {
	index   map[Color]int // color -> position in entries
	entries []Entry
	total   int
}

func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{index: make(map[Color]int)}
}

func (t *FrequencyTable) Add(c Color) {
	if i, ok := t.index[c]; ok {
		t.entries[i].Count++
	} else {
		t.index[c] = len(t.entries)
		t.entries = append(t.entries, Entry{Color: c, Count: 1, First: t.total})
	}
	t.total++
}

// Len is the number of distinct colors.
func (t *FrequencyTable) Len() int { return len(t.entries) }

// Total is the number of colors added.
func (t *FrequencyTable) Total() int { return t.total }

func (t *FrequencyTable) Count(c Color) int {
	if i, ok := t.index[c]; ok {
		return t.entries[i].Count
	}
	return 0
}

// Entries returns a copy of the table in first-seen order.
func (t *FrequencyTable) Entries() []Entry {
	return slices.Clone(t.entries)
}

// Ranked returns the entries by descending count. Equal counts keep
// first-seen order.
func (t *FrequencyTable) Ranked() []Entry {
	ranked := slices.Clone(t.entries)
	slices.SortStableFunc(ranked, func(a, b Entry) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return ranked
}

// Top returns up to n most frequent colors.
func (t *FrequencyTable) Top(n int) Palette {
	ranked := t.Ranked()
	n = max(0, min(n, len(ranked)))
	out := make(Palette, n)
	for i := range n {
		out[i] = ranked[i].Color
	}
	return out
}

// Pixels flattens img in raster order: left to right, top to bottom.
func Pixels(img image.Image) []Color {
	b := img.Bounds()
	out := make([]Color, 0, b.Dx()*b.Dy())
	if m, ok := img.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				i := m.PixOffset(x, y)
				out = append(out, Color{m.Pix[i], m.Pix[i+1], m.Pix[i+2]})
			}
		}
		return out
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, ColorOf(img.At(x, y)))
		}
	}
	return out
}

func CountColors(img image.Image) *FrequencyTable {
	t := NewFrequencyTable()
	for _, c := range Pixels(img) {
		t.Add(c)
	}
	return t
}

// TopColors returns the n most frequent colors of img. A palette shorter than
// n is returned when img has fewer distinct colors.
func TopColors(img image.Image, n int) (Palette, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: palette size must be >= 1, got %d", ErrInvalidParameter, n)
	}
	t := CountColors(img)
	if t.Len() == 0 {
		return nil, ErrEmptyPalette
	}
	return t.Top(n), nil
}
