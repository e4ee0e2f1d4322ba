package botcrypto

import (
	"runtime"
	"sync"
)

// SecureBytes wraps a sensitive byte slice with best-effort mlock and
// explicit zeroing. Destroy is idempotent; a finalizer covers the case
// where it is never called.
type SecureBytes struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

// NewSecureBytes copies data into a locked buffer. Lock failure is not
// an error; the buffer still works, just without the mlock guarantee.
func NewSecureBytes(data []byte) *SecureBytes {
	buf := make([]byte, len(data))
	copy(buf, data)

	sb := &SecureBytes{
		data:   buf,
		locked: mlock(buf),
	}

	runtime.SetFinalizer(sb, func(s *SecureBytes) {
		s.Destroy()
	})

	return sb
}

// Bytes returns the underlying slice, or nil after Destroy.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Len returns the buffer length, 0 after Destroy.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// IsLocked reports whether the buffer is mlocked.
func (s *SecureBytes) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Destroy zeros the buffer and releases the memory lock.
func (s *SecureBytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	ZeroBytes(s.data)

	if s.locked {
		munlock(s.data)
		s.locked = false
	}

	s.data = nil
	runtime.SetFinalizer(s, nil)
}

// ZeroBytes overwrites a byte slice with zeros.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
