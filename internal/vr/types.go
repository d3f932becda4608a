package vr

import (
	"fmt"
	"strconv"
)

// Hand identifies a tracked controller. Left is evaluated before Right.
type Hand int

const (
	NoHand Hand = iota - 1
	Left
	Right
)

// Hands lists the controllers in evaluation order.
var Hands = [2]Hand{Left, Right}

func (h Hand) Valid() bool { return h == Left || h == Right }

func (h Hand) Other() Hand {
	switch h {
	case Left:
		return Right
	case Right:
		return Left
	}
	return NoHand
}

func (h Hand) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

// ParseHand accepts "left"/"right" or "0"/"1".
func ParseHand(s string) (Hand, error) {
	switch s {
	case "left", "l", "0":
		return Left, nil
	case "right", "r", "1":
		return Right, nil
	}
	return NoHand, fmt.Errorf("%w: %q", ErrUnknownHand, s)
}

// Pointer is a logical picking source. Each pointer owns one highlight.
type Pointer int

const (
	PointerMouse Pointer = iota
	PointerLeft
	PointerRight
)

// PointerFor maps a controller to its pointer.
func PointerFor(h Hand) Pointer {
	if h == Right {
		return PointerRight
	}
	return PointerLeft
}

func (p Pointer) String() string {
	switch p {
	case PointerMouse:
		return "mouse"
	case PointerLeft:
		return "left"
	case PointerRight:
		return "right"
	}
	return "unknown"
}

// Color is a packed 0xRRGGBB material colour.
type Color uint32

const (
	Red     Color = 0xff0000
	Green   Color = 0x00ff00
	Blue    Color = 0x0000ff
	Yellow  Color = 0xffff00
	Magenta Color = 0xff00ff
	White   Color = 0xffffff
	Grey    Color = 0x9b979b
)

// Palette is the cycle used for cube base colours.
var Palette = []Color{Red, Green, Blue, Yellow, Magenta}

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// UnmarshalYAML accepts either an integer or a "#rrggbb"/"0xrrggbb" string.
func (c *Color) UnmarshalYAML(unmarshal func(any) error) error {
	var n uint32
	if err := unmarshal(&n); err == nil {
		*c = Color(n)
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the colour as "#rrggbb".
func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// ParseColor reads "#rrggbb", "0xrrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	switch {
	case len(s) > 0 && s[0] == '#':
		s = s[1:]
	case len(s) > 1 && (s[:2] == "0x" || s[:2] == "0X"):
		s = s[2:]
	}
	if len(s) != 6 {
		return 0, fmt.Errorf("invalid colour %q", s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Color(n), nil
}
