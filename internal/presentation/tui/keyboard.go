package tui

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/aretw0/parley/pkg/ports"
	"golang.org/x/term"
)

// Keyboard is an InputSource reading key presses from a terminal in raw mode.
// A background goroutine reads the terminal; Poll drains what it decoded.
type Keyboard struct {
	in      io.Reader
	restore func() error

	// pending holds an escape sequence cut off at the end of the last read.
	pending []byte

	mu     sync.Mutex
	events []ports.Event
	err    error
	done   chan struct{}
}

// OpenKeyboard switches f to raw mode and starts reading it.
// Close restores the previous terminal mode.
func OpenKeyboard(f *os.File) (*Keyboard, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("input is not a terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	k := NewKeyboard(f)
	k.restore = func() error { return term.Restore(fd, state) }
	return k, nil
}

// NewKeyboard reads key presses from r without touching terminal modes.
func NewKeyboard(r io.Reader) *Keyboard {
	k := &Keyboard{
		in:      r,
		restore: func() error { return nil },
		done:    make(chan struct{}),
	}
	go k.read()
	return k
}

func (k *Keyboard) read() {
	defer close(k.done)
	buf := make([]byte, 64)
	for {
		n, err := k.in.Read(buf)
		if n > 0 {
			k.push(k.feed(buf[:n]))
		}
		if err != nil {
			// a lone Esc before the end of input still quits
			k.push(Decode(k.pending))
			k.pending = nil
			k.mu.Lock()
			if !errors.Is(err, io.EOF) {
				k.err = err
			}
			k.mu.Unlock()
			return
		}
	}
}

func (k *Keyboard) push(evs []ports.Event) {
	if len(evs) == 0 {
		return
	}
	k.mu.Lock()
	k.events = append(k.events, evs...)
	k.mu.Unlock()
}

// feed decodes b after any pending bytes, holding back an escape sequence
// that may continue in the next read.
func (k *Keyboard) feed(b []byte) []ports.Event {
	data := append(k.pending, b...)
	tail := incompleteEscape(data)
	k.pending = append([]byte(nil), data[len(data)-tail:]...)
	return Decode(data[:len(data)-tail])
}

// incompleteEscape reports how many trailing bytes of b start an unfinished
// arrow-key sequence.
func incompleteEscape(b []byte) int {
	n := len(b)
	switch {
	case n >= 1 && b[n-1] == 0x1b:
		return 1
	case n >= 2 && b[n-2] == 0x1b && b[n-1] == '[':
		return 2
	}
	return 0
}

// Poll returns the events decoded since the previous call.
func (k *Keyboard) Poll() []ports.Event {
	k.mu.Lock()
	defer k.mu.Unlock()
	evs := k.events
	k.events = nil
	return evs
}

// Err reports a read failure, if any.
func (k *Keyboard) Err() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.err
}

// Done is closed when the reader stops.
func (k *Keyboard) Done() <-chan struct{} {
	return k.done
}

// Close restores the terminal mode.
func (k *Keyboard) Close() error {
	return k.restore()
}

// Size reports the terminal width of f, or DefaultWidth when unknown.
func Size(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return DefaultWidth
	}
	return w
}

// Decode maps raw terminal bytes to events.
// W/K and the up arrow scroll up, S/J and the down arrow scroll down,
// Enter and Space confirm, Q, Esc and Ctrl-C quit. Other bytes are ignored.
func Decode(b []byte) []ports.Event {
	var evs []ports.Event
	for i := 0; i < len(b); i++ {
		switch c := b[i]; c {
		case 'w', 'W', 'k', 'K':
			evs = append(evs, ports.EventScrollUp)
		case 's', 'S', 'j', 'J':
			evs = append(evs, ports.EventScrollDown)
		case '\r', '\n', ' ':
			evs = append(evs, ports.EventConfirm)
		case 'q', 'Q', 0x03:
			evs = append(evs, ports.EventQuit)
		case 0x1b:
			if i+2 < len(b) && b[i+1] == '[' {
				switch b[i+2] {
				case 'A':
					evs = append(evs, ports.EventScrollUp)
				case 'B':
					evs = append(evs, ports.EventScrollDown)
				}
				i += 2
				continue
			}
			evs = append(evs, ports.EventQuit)
		}
	}
	return evs
}
