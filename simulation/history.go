package simulation

import "github.com/oomph-ac/kinematic/character"

// historySize is the number of ticks an agent can be rewound by.
const historySize = 40

// Frame is the state of an actor recorded at the end of a tick.
type Frame struct {
	Tick     uint64
	Snapshot character.Snapshot
}

// History is a fixed-size circular buffer of frames, oldest first.
type History struct {
	buffer   []Frame
	capacity int
	head     int // Points to the next write position
	size     int // Current number of elements
}

// NewHistory creates a history holding the last capacity frames.
func NewHistory(capacity int) *History {
	return &History{
		buffer:   make([]Frame, capacity),
		capacity: capacity,
	}
}

// Add records a frame, dropping the oldest if the history is full.
func (h *History) Add(f Frame) {
	h.buffer[h.head] = f
	h.head = (h.head + 1) % h.capacity
	if h.size < h.capacity {
		h.size++
	}
}

// Get returns the frame recorded at tick.
func (h *History) Get(tick uint64) (Frame, bool) {
	// Search backwards from most recent
	for i := 0; i < h.size; i++ {
		idx := (h.head - 1 - i + h.capacity) % h.capacity
		if h.buffer[idx].Tick == tick {
			return h.buffer[idx], true
		}
		if h.buffer[idx].Tick < tick {
			break
		}
	}
	return Frame{}, false
}

// Latest returns the most recently added frame.
func (h *History) Latest() (Frame, bool) {
	if h.size == 0 {
		return Frame{}, false
	}
	return h.buffer[(h.head-1+h.capacity)%h.capacity], true
}

// Len returns the number of frames held.
func (h *History) Len() int {
	return h.size
}

// DropAfter forgets every frame recorded after tick.
func (h *History) DropAfter(tick uint64) {
	for h.size > 0 {
		idx := (h.head - 1 + h.capacity) % h.capacity
		if h.buffer[idx].Tick <= tick {
			return
		}
		h.head = idx
		h.size--
	}
}
