// Package secure wraps memguard to keep fetched key material out of
// swap and out of accidental log output while it is in flight between
// the secrets manager and gpg.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer holds sensitive bytes in an encrypted memguard enclave. The
// plaintext exists only inside Open callbacks and is wiped when they
// return.
type Buffer struct {
	enclave *memguard.Enclave
	mu      sync.RWMutex
	// destroyed allows idempotent Destroy() and prevents use after
	// destroy
	destroyed bool
}

// NewBuffer moves data into a protected memory region. memguard wipes
// the source slice as part of sealing it.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{enclave: memguard.NewEnclave(data)}
}

// NewBufferFromString is a convenience for CLI output captured as a string.
func NewBufferFromString(s string) *Buffer {
	return NewBuffer([]byte(s))
}

// Open decrypts the enclave and passes the plaintext to fn. The locked
// buffer is destroyed when fn returns, on every path.
func (b *Buffer) Open(fn func(plaintext []byte) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return fn(nil)
	}

	locked, err := b.enclave.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()
	return fn(locked.Bytes())
}

// OpenString is Open for callers that need the plaintext as a string,
// e.g. to pipe it to a child process's stdin.
func (b *Buffer) OpenString(fn func(plaintext string) error) error {
	return b.Open(func(plaintext []byte) error {
		return fn(string(plaintext))
	})
}

// Destroy marks the buffer as unusable. Idempotent. The encrypted
// enclave data is safe even without explicit destruction; this only
// prevents accidental reuse.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyed = true
}

// String implements Stringer so a Buffer can never leak via formatting.
func (b *Buffer) String() string {
	return "[REDACTED]"
}
