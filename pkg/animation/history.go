package animation

import "gocv.io/x/gocv"

// History is a fixed-capacity FIFO ring of previously produced frames.
// Pushing into a full buffer evicts (and closes) the oldest frame. It is
// positional, not content-addressed, and is written only by the animator.
//
// History owns every Mat pushed into it; Close releases them all.
type History struct {
	frames []gocv.Mat
	head   int // index of the oldest entry
	count  int
}

// NewHistory creates a history buffer holding at most capacity frames.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{frames: make([]gocv.Mat, capacity)}
}

// Len returns the number of frames currently held.
func (h *History) Len() int {
	return h.count
}

// Push appends a frame, taking ownership of it. If the buffer is full the
// oldest frame is closed and overwritten.
func (h *History) Push(frame gocv.Mat) {
	if h.count < len(h.frames) {
		h.frames[(h.head+h.count)%len(h.frames)] = frame
		h.count++
		return
	}
	h.frames[h.head].Close()
	h.frames[h.head] = frame
	h.head = (h.head + 1) % len(h.frames)
}

// Oldest returns the oldest frame still held. The Mat remains owned by the
// history; callers must not close it.
func (h *History) Oldest() (gocv.Mat, bool) {
	if h.count == 0 {
		return gocv.Mat{}, false
	}
	return h.frames[h.head], true
}

// Latest returns the most recently pushed frame. The Mat remains owned by
// the history; callers must not close it.
func (h *History) Latest() (gocv.Mat, bool) {
	if h.count == 0 {
		return gocv.Mat{}, false
	}
	return h.frames[(h.head+h.count-1)%len(h.frames)], true
}

// Close releases every held frame and empties the buffer.
func (h *History) Close() {
	for i := 0; i < h.count; i++ {
		h.frames[(h.head+i)%len(h.frames)].Close()
	}
	h.head = 0
	h.count = 0
}
