package runtime

// Stack is the conversation call stack. The most recently pushed frame is
// last; it is the active frame.
type Stack struct {
	frames []*Frame
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push appends a frame, making it the active frame.
func (s *Stack) Push(frame *Frame) {
	s.frames = append(s.frames, frame)
}

// Pop removes and returns the active frame, or nil when empty.
func (s *Stack) Pop() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top
}

// Top returns the active frame without removing it, or nil when empty.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// GetFrames returns the frames oldest-first. The slice is shared; callers
// must not grow or shrink it.
func (s *Stack) GetFrames() []*Frame {
	return s.frames
}

// GetSize returns the stack depth.
func (s *Stack) GetSize() int {
	return len(s.frames)
}

// IsEmpty reports whether the stack has no frames.
func (s *Stack) IsEmpty() bool {
	return len(s.frames) == 0
}

// Flush removes all frames.
func (s *Stack) Flush() {
	s.frames = nil
}

// PopTo discards frames until only the first n remain.
func (s *Stack) PopTo(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(s.frames) {
		s.frames = s.frames[:n]
	}
}
