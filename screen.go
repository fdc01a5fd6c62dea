package chip8

import "strings"

const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Screen is the monochrome framebuffer, row-major, one cell per pixel
type Screen [ScreenWidth * ScreenHeight]bool

// Pixel reports whether the pixel at x, y is on
func (s *Screen) Pixel(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}

	return s[y*ScreenWidth+x]
}

func (s *Screen) clear() {
	*s = Screen{}
}

// drawSprite XORs the sprite rows at x, y.
// The start coordinates wrap into the frame but the sprite itself is clipped at the right and bottom
// edges. Returns whether a pixel that was on got turned off.
func (s *Screen) drawSprite(x, y byte, sprite []byte) bool {
	x0 := int(x) % ScreenWidth
	py := int(y) % ScreenHeight
	collision := false

	for _, row := range sprite {
		if py >= ScreenHeight {
			break
		}

		for bit, px := 0, x0; bit < 8 && px < ScreenWidth; bit, px = bit+1, px+1 {
			if row&(0x80>>bit) == 0 {
				continue
			}

			t := py*ScreenWidth + px
			if s[t] {
				collision = true
			}
			s[t] = !s[t]
		}

		py++
	}

	return collision
}

// Pack returns the screen as a bitmap, eight pixels per byte, most significant bit first
func (s *Screen) Pack() []byte {
	buf := make([]byte, len(s)/8)
	for i, on := range s {
		if on {
			buf[i/8] |= 0x80 >> (i % 8)
		}
	}

	return buf
}

func (s Screen) String() string {
	sb := strings.Builder{}
	sb.Grow((ScreenWidth + 1) * ScreenHeight)

	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if s[y*ScreenWidth+x] {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
