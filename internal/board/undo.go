package board

import "github.com/ramanasai/tripboard/internal/schedule"

// pendingDelete is the single undo slot: a snapshot plus the timer that
// will discard it.
type pendingDelete struct {
	note  Note
	timer schedule.Timer
}

// park puts n in the undo slot. Caller holds s.mu. The previous occupant,
// if any, has its timer stopped and is returned so the caller can report
// the discard after unlocking.
func (s *Store) park(n Note) (Note, bool) {
	var (
		lost    Note
		hadLost bool
	)
	if prev := s.pending; prev != nil {
		prev.timer.Stop()
		lost, hadLost = prev.note, true
	}
	p := &pendingDelete{note: n}
	p.timer = s.clock.AfterFunc(s.undoWindow, func() { s.expire(p) })
	s.pending = p
	return lost, hadLost
}

// expire runs when the undo window of p closes. A slot that was restored
// or overwritten in the meantime is left alone.
func (s *Store) expire(p *pendingDelete) {
	s.mu.Lock()
	if s.pending != p {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()

	s.discarded(p.note)
}

func (s *Store) discarded(n Note) {
	s.logger.Debug("note discarded", "id", n.ID)
	if s.onDiscard != nil {
		s.onDiscard(n)
	}
}

// RestoreNote puts the most recently deleted note back exactly as it was,
// stale zIndex included, and cancels its discard timer. With an empty slot
// it does nothing.
func (s *Store) RestoreNote() (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.pending
	if p == nil {
		return Note{}, false
	}
	p.timer.Stop()
	s.pending = nil
	s.notes = append(s.notes, p.note)
	s.logger.Debug("note restored", "id", p.note.ID)
	return p.note, true
}

// LastDeleted peeks at the undo slot.
func (s *Store) LastDeleted() (Note, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Note{}, false
	}
	return s.pending.note, true
}
