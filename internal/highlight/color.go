package highlight

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// DefaultAlphabet holds the upper half of the hex digits. Every channel of a
// color built from it is at least 0x88, light enough for dark text.
const DefaultAlphabet = "89ABCDEF"

// codeLength is the number of hex symbols in a color code (#RRGGBB).
const codeLength = 6

// DefaultMaxAttempts caps random draws per color before the allocator falls
// back to scanning the palette.
const DefaultMaxAttempts = 1000

// Color is a 24-bit RGB value.
type Color uint32

// ParseColor parses "#RRGGBB" or "RRGGBB".
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != codeLength {
		return 0, fmt.Errorf("parse color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color(v), nil
}

// Hex returns the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
}

func (c Color) String() string {
	return c.Hex()
}

// RGB returns the three 8-bit channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Fractions returns the channels scaled to 0..1, the form the Sheets API
// expects.
func (c Color) Fractions() (r, g, b float64) {
	rr, gg, bb := c.RGB()
	return float64(rr) / 255, float64(gg) / 255, float64(bb) / 255
}

// Palette is the set of colors whose six hex symbols all come from Alphabet.
type Palette struct {
	Alphabet string
}

// DefaultPalette returns the high-contrast palette (8^6 colors).
func DefaultPalette() Palette {
	return Palette{Alphabet: DefaultAlphabet}
}

// Validate checks that the alphabet is non-empty and made of distinct hex
// digits. Distinct symbols keep the index-to-color mapping injective.
func (p Palette) Validate() error {
	if p.Alphabet == "" {
		return fmt.Errorf("%w: empty alphabet", ErrInvalidPalette)
	}
	seen := make(map[byte]bool, len(p.Alphabet))
	for i := 0; i < len(p.Alphabet); i++ {
		ch := p.Alphabet[i]
		if _, ok := hexValue(ch); !ok {
			return fmt.Errorf("%w: %q is not a hex digit", ErrInvalidPalette, ch)
		}
		upper := strings.ToUpper(string(ch))[0]
		if seen[upper] {
			return fmt.Errorf("%w: duplicate symbol %q", ErrInvalidPalette, ch)
		}
		seen[upper] = true
	}
	return nil
}

// Size returns the number of distinct colors in the palette.
func (p Palette) Size() int {
	n := len(p.Alphabet)
	size := 1
	for i := 0; i < codeLength; i++ {
		size *= n
	}
	return size
}

// Contains reports whether every symbol of c is in the alphabet.
func (p Palette) Contains(c Color) bool {
	code := strings.TrimPrefix(c.Hex(), "#")
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(strings.ToUpper(p.Alphabet), rune(code[i])) {
			return false
		}
	}
	return true
}

// color maps an index in [0, Size) to its color. The first symbol is the
// most significant hex digit.
func (p Palette) color(idx int) Color {
	n := len(p.Alphabet)
	var v uint32
	for i := 0; i < codeLength; i++ {
		d, _ := hexValue(p.Alphabet[idx%n])
		v = v<<4 | uint32(d)
		idx /= n
	}
	return Color(v)
}

func hexValue(ch byte) (uint8, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0', true
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10, true
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}

// Source supplies random indexes. *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// globalSource draws from the math/rand/v2 top-level generator, which is
// safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// colorAllocator hands out unique colors for one run.
type colorAllocator struct {
	palette     Palette
	source      Source
	maxAttempts int
	used        map[Color]struct{}
}

func newColorAllocator(palette Palette, source Source, maxAttempts int) *colorAllocator {
	return &colorAllocator{
		palette:     palette,
		source:      source,
		maxAttempts: maxAttempts,
		used:        make(map[Color]struct{}),
	}
}

// next returns a color not handed out before in this run.
func (a *colorAllocator) next() (Color, error) {
	size := a.palette.Size()
	if len(a.used) >= size {
		return 0, fmt.Errorf("%w: all %d colors in use", ErrColorExhaustion, size)
	}

	for i := 0; i < a.maxAttempts; i++ {
		c := a.palette.color(a.source.IntN(size))
		if _, taken := a.used[c]; !taken {
			a.used[c] = struct{}{}
			return c, nil
		}
	}

	// Sampling keeps colliding; walk the palette instead.
	start := a.source.IntN(size)
	for i := 0; i < size; i++ {
		c := a.palette.color((start + i) % size)
		if _, taken := a.used[c]; !taken {
			a.used[c] = struct{}{}
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: all %d colors in use", ErrColorExhaustion, size)
}
