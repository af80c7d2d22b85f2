package dialog

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Spok95/shelf-timer/internal/domain/pantry"
)

// Store — сессии чатов в памяти процесса.
type Store struct {
	mu    sync.Mutex
	items map[int64]Session
}

func NewStore() *Store { return &Store{items: map[int64]Session{}} }

// Get отдаёт копию сессии; если её нет — пустую в состоянии idle.
func (s *Store) Get(chatID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[chatID]
	if !ok {
		return Session{ChatID: chatID, State: StateIdle}
	}
	return sess.clone()
}

func (s *Store) Set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.State == "" {
		sess.State = StateIdle
	}
	s.items[sess.ChatID] = sess.clone()
}

func (s *Store) SetState(chatID int64, st State) {
	s.update(chatID, func(sess *Session) { sess.State = st })
}

// Keep запоминает новую версию строки для чата.
func (s *Store) Keep(chatID int64, row pantry.Row) {
	s.update(chatID, func(sess *Session) {
		if sess.Overrides == nil {
			sess.Overrides = map[uuid.UUID]pantry.Row{}
		}
		sess.Overrides[row.ID] = row
	})
}

func (s *Store) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, chatID)
}

func (s *Store) update(chatID int64, fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[chatID]
	if !ok {
		sess = Session{ChatID: chatID, State: StateIdle}
	}
	fn(&sess)
	s.items[chatID] = sess
}
