package chip8

// KeyCount is the number of keys of the hexadecimal keypad
const KeyCount = 16

// Keypad holds the pressed state of every key code
type Keypad [KeyCount]bool

// Pressed returns the lowest pressed key code
func (kp *Keypad) Pressed() (byte, bool) {
	for k, down := range kp {
		if down {
			return byte(k), true
		}
	}

	return 0, false
}

// Controller is what an input collaborator drives. It is implemented by Cpu.
type Controller interface {
	KeyDown(k byte)
	KeyUp(k byte)
	TogglePause()
	RequestQuit()
}

// Input abstraction for an input source
type Input interface {
	// Boot initializes the component
	Boot() error
	// Poll delivers the pending events to the controller. It is called once per tick.
	Poll(ctl Controller) error
}

// DummyInput is an input that never produces events
type DummyInput struct {
}

func NewDummyInput() *DummyInput {
	return &DummyInput{}
}

// Boot implements Input.
func (in *DummyInput) Boot() error {
	return nil
}

// Poll implements Input.
func (in *DummyInput) Poll(ctl Controller) error {
	return nil
}

// KeyboardLayout lists the physical keys of the keypad rows, from top-left to bottom-right.
// The keypad codes are laid out as
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
type KeyboardLayout [KeyCount]rune

var keypadCodes = [KeyCount]byte{
	0x1, 0x2, 0x3, 0xC,
	0x4, 0x5, 0x6, 0xD,
	0x7, 0x8, 0x9, 0xE,
	0xA, 0x0, 0xB, 0xF,
}

var DefaultKeyboardLayout = KeyboardLayout{
	'1', '2', '3', '4',
	'q', 'w', 'e', 'r',
	'a', 's', 'd', 'f',
	'z', 'x', 'c', 'v',
}

// LookupMap maps the runes of the layout to the keypad codes
func LookupMap(layout KeyboardLayout) map[rune]byte {
	m := make(map[rune]byte, KeyCount)
	for i, r := range layout {
		m[r] = keypadCodes[i]
	}

	return m
}
