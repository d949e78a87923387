package api

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/samcharles93/profinfo/internal/report"
	"github.com/samcharles93/profinfo/pkg/profinfo"
)

type sessionRecord struct {
	ID       string
	Name     string
	LoadedAt time.Time
	Cached   bool
	Session  *profinfo.Session
	Summary  report.Summary
}

func (r *sessionRecord) response() SessionResponse {
	return SessionResponse{
		ID:       r.ID,
		Object:   "session",
		Name:     r.Name,
		LoadedAt: r.LoadedAt.Unix(),
		Cached:   r.Cached,
		Summary:  r.Summary,
	}
}

// SessionStore keeps loaded sessions addressable by id.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionRecord
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*sessionRecord)}
}

func (s *SessionStore) Create(name string, sess *profinfo.Session, cached bool, now time.Time) *sessionRecord {
	rec := &sessionRecord{
		ID:       "sess_" + uuid.NewString(),
		Name:     name,
		LoadedAt: now,
		Cached:   cached,
		Session:  sess,
		Summary:  report.Summarize(sess),
	}
	s.mu.Lock()
	s.sessions[rec.ID] = rec
	s.mu.Unlock()
	return rec
}

func (s *SessionStore) Get(id string) (*sessionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	return rec, ok
}

func (s *SessionStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// List returns all records, oldest first.
func (s *SessionStore) List() []*sessionRecord {
	s.mu.Lock()
	out := make([]*sessionRecord, 0, len(s.sessions))
	for _, rec := range s.sessions {
		out = append(out, rec)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoadedAt.Equal(out[j].LoadedAt) {
			return out[i].LoadedAt.Before(out[j].LoadedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
