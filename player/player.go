// Package player tracks active voice sessions per guild. The actual audio
// streaming engine is an external collaborator; this registry only carries
// the state admission and the playback commands need.
package player

import (
	"sync"
	"time"
)

// Track is one queued piece of audio.
type Track struct {
	Title       string
	URL         string
	RequestedBy string
	Duration    time.Duration
}

// Session is the active streaming context bound to one guild.
type Session struct {
	mu        sync.Mutex
	guildID   string
	channelID string
	playing   bool
	current   *Track
	queue     []Track
	startedAt time.Time
}

// ChannelID returns the voice channel the session is bound to.
func (s *Session) ChannelID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channelID
}

// IsPlaying reports whether the session is currently playing.
func (s *Session) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Current returns the track being played, if any.
func (s *Session) Current() (Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Track{}, false
	}
	return *s.current, true
}

// Enqueue adds a track; if nothing is playing it becomes the current track.
func (s *Session) Enqueue(track Track) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		s.current = &track
		s.playing = true
		return 0
	}
	s.queue = append(s.queue, track)
	return len(s.queue)
}

// Skip drops the current track and promotes the next queued one. Returns
// the new current track, or ok=false when the queue ran dry.
func (s *Session) Skip() (Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		s.current = nil
		s.playing = false
		return Track{}, false
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	s.current = &next
	s.playing = true
	return next, true
}

// Pause suspends playback without touching the queue.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = false
}

// Resume continues playback if there is a current track.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	s.playing = true
	return true
}

// Queue returns a copy of the pending tracks.
func (s *Session) Queue() []Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := make([]Track, len(s.queue))
	copy(queue, s.queue)
	return queue
}

// Manager owns the per-guild session registry.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// GetActiveSession returns the guild's session, if one exists.
func (m *Manager) GetActiveSession(guildID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[guildID]
	return session, ok
}

// Open returns the guild's session, creating one bound to channelID if
// none exists.
func (m *Manager) Open(guildID, channelID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[guildID]; ok {
		return session
	}
	session := &Session{
		guildID:   guildID,
		channelID: channelID,
		startedAt: time.Now(),
	}
	m.sessions[guildID] = session
	return session
}

// Close tears down the guild's session.
func (m *Manager) Close(guildID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, guildID)
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
