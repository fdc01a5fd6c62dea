package chip8

// Display abstraction for a display
type Display interface {
	// Boot initializes the component
	Boot() error
	// Render presents a copy of the framebuffer taken at the end of a tick
	Render(screen Screen, config Config) error
}

// DummyDisplay is a display that keeps the last frame it was given
type DummyDisplay struct {
	Last   Screen
	Frames int
}

func NewDummyDisplay() *DummyDisplay {
	return &DummyDisplay{}
}

// Boot implements Display.
func (d *DummyDisplay) Boot() error {
	return nil
}

// Render implements Display.
func (d *DummyDisplay) Render(screen Screen, config Config) error {
	d.Last = screen
	d.Frames++
	return nil
}
