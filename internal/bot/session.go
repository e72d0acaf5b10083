package bot

import (
	"sync"
	"time"

	"scholar_bot/internal/filter"
	"scholar_bot/internal/model"
)

// sessionTTL is how long an untouched conversation survives before it is
// evicted. Starting a new flow always overwrites the old session.
const sessionTTL = 30 * time.Minute

type stage int

const (
	stageNone stage = iota

	// Guided search: level is chosen on entry, then one answer per stage.
	stageSearchField
	stageSearchRegion

	// Profile setup, one answer per stage.
	stageProfileName
	stageProfileCountry
	stageProfileLevel
	stageProfileGPA
	stageProfileField
	stageProfileCareer
	stageProfileFinancial
)

// session is the transient per-chat conversation state: either a partially
// built guided-search query or a profile draft, never both.
type session struct {
	Stage   stage
	Query   filter.Query
	Profile model.UserProfile
	Touched time.Time
}

// sessionStore keeps one session per chat with idle eviction.
type sessionStore struct {
	mu  sync.Mutex
	m   map[int64]*session
	ttl time.Duration
	now func() time.Time
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		m:   make(map[int64]*session),
		ttl: sessionTTL,
		now: time.Now,
	}
}

// get returns the live session for a chat, or nil. Idle sessions are
// dropped on access.
func (st *sessionStore) get(chatID int64) *session {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.m[chatID]
	if !ok {
		return nil
	}
	if st.now().Sub(s.Touched) > st.ttl {
		delete(st.m, chatID)
		return nil
	}
	s.Touched = st.now()
	return s
}

// put installs a fresh session for a chat, replacing any previous one.
func (st *sessionStore) put(chatID int64, s *session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s.Touched = st.now()
	st.m[chatID] = s
}

// drop discards a chat's session, if any.
func (st *sessionStore) drop(chatID int64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.m, chatID)
}
