package renderer

import (
	"errors"
	"fmt"
	"slices"
)

// TemporaryScope tracks the temporaries acquired through it during one frame so that every one of them is
// released exactly once, including on error paths. Typical use:
//
//	scope := renderer.NewTemporaryScope(ctx)
//	defer scope.ReleaseAll()
type TemporaryScope struct {
	ctx      Context
	held     []TargetID
	acquired int
	released int
}

// NewTemporaryScope creates an empty scope over ctx.
//
// Parameters:
//   - ctx: the context temporaries are acquired from
//
// Returns:
//   - *TemporaryScope: the scope
func NewTemporaryScope(ctx Context) *TemporaryScope {
	return &TemporaryScope{ctx: ctx}
}

// Context returns the context the scope acquires from.
func (s *TemporaryScope) Context() Context {
	return s.ctx
}

// Acquire acquires a temporary and records it as held.
//
// Parameters:
//   - id: the slot to acquire
//   - desc: the target description
//
// Returns:
//   - error: ErrTargetHeld if the scope already holds id, or the context's error
func (s *TemporaryScope) Acquire(id TargetID, desc TextureDescriptor) error {
	if s.Holds(id) {
		return fmt.Errorf("acquire %s: %w", id, ErrTargetHeld)
	}
	if err := s.ctx.AcquireTemporary(id, desc); err != nil {
		return fmt.Errorf("acquire %s: %w", id, err)
	}
	s.held = append(s.held, id)
	s.acquired++
	return nil
}

// Release releases a held temporary.
//
// Parameters:
//   - id: the slot to release
//
// Returns:
//   - error: ErrTargetNotHeld if the scope does not hold id, or the context's error
func (s *TemporaryScope) Release(id TargetID) error {
	i := slices.Index(s.held, id)
	if i < 0 {
		return fmt.Errorf("release %s: %w", id, ErrTargetNotHeld)
	}
	s.held = slices.Delete(s.held, i, i+1)
	s.released++
	if err := s.ctx.ReleaseTemporary(id); err != nil {
		return fmt.Errorf("release %s: %w", id, err)
	}
	return nil
}

// Holds reports whether id is currently held by the scope.
func (s *TemporaryScope) Holds(id TargetID) bool {
	return slices.Contains(s.held, id)
}

// Held returns the number of temporaries currently held.
func (s *TemporaryScope) Held() int {
	return len(s.held)
}

// Acquired returns the number of successful acquisitions over the scope's lifetime.
func (s *TemporaryScope) Acquired() int {
	return s.acquired
}

// Released returns the number of releases over the scope's lifetime.
func (s *TemporaryScope) Released() int {
	return s.released
}

// ReleaseAll releases every held temporary, most recently acquired first. Calling it on an empty scope is
// a no-op, so it is safe to both defer it and call it explicitly.
//
// Returns:
//   - error: the joined release errors, if any
func (s *TemporaryScope) ReleaseAll() error {
	var errs []error
	for len(s.held) > 0 {
		id := s.held[len(s.held)-1]
		if err := s.Release(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
