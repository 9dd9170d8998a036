package dialog

import (
	"sync"
	"time"

	"github.com/jasonisamilehigh/taskme/internal/task"
)

// DefaultSessionTTL bounds how long an idle call keeps its state. A
// caller who hangs up mid-conversation produces no further turns, so
// expiry is the only cleanup their session gets.
const DefaultSessionTTL = 10 * time.Minute

// Session is the per-call scratch state carried across webhook turns:
// the pending draft and the state the call was left in.
type Session struct {
	CallID    string
	State     State
	Draft     *task.Draft
	UpdatedAt time.Time
}

// Sessions holds active call sessions keyed by the gateway's call
// identifier. Keying by call ID keeps two simultaneous calls from
// corrupting each other's pending drafts.
type Sessions struct {
	mu     sync.Mutex
	byCall map[string]*Session
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions creates a session store. ttl <= 0 selects DefaultSessionTTL.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		byCall: make(map[string]*Session),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Begin creates or resets the session for a call.
func (s *Sessions) Begin(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	s.byCall[callID] = &Session{
		CallID:    callID,
		State:     StateIdle,
		UpdatedAt: s.now(),
	}
}

// SetDraft stores the pending draft for a call, creating the session
// if the call is not yet tracked.
func (s *Sessions) SetDraft(callID string, d *task.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getLocked(callID)
	sess.Draft = d
	sess.UpdatedAt = s.now()
}

// Draft returns the pending draft for a call, or nil.
func (s *Sessions) Draft(callID string) *task.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byCall[callID]
	if !ok || s.expiredLocked(sess) {
		return nil
	}
	return sess.Draft
}

// ClearDraft drops the pending draft but keeps the session alive.
func (s *Sessions) ClearDraft(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byCall[callID]; ok {
		sess.Draft = nil
		sess.UpdatedAt = s.now()
	}
}

// SetState records the state a call was left in.
func (s *Sessions) SetState(callID string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getLocked(callID)
	sess.State = st
	sess.UpdatedAt = s.now()
}

// End removes a call's session entirely.
func (s *Sessions) End(callID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byCall, callID)
}

// Active counts live sessions.
func (s *Sessions) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
	return len(s.byCall)
}

func (s *Sessions) getLocked(callID string) *Session {
	sess, ok := s.byCall[callID]
	if !ok || s.expiredLocked(sess) {
		sess = &Session{CallID: callID, UpdatedAt: s.now()}
		s.byCall[callID] = sess
	}
	return sess
}

func (s *Sessions) expiredLocked(sess *Session) bool {
	return s.now().Sub(sess.UpdatedAt) > s.ttl
}

func (s *Sessions) purgeLocked() {
	for id, sess := range s.byCall {
		if s.expiredLocked(sess) {
			delete(s.byCall, id)
		}
	}
}
