package session

import (
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// DocumentPrefix tags system turns that carry ingested document text, so
// repeat uploads of the same file can be recognized.
const DocumentPrefix = "User uploaded a document: "

// Turn is one role-tagged message in a conversation transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is an append-only transcript plus its creation timestamp.
type Conversation struct {
	ID        string    `json:"conversation_id"`
	Turns     []Turn    `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager holds every conversation for the life of the process. Unknown ids
// never fail: first access materializes an empty conversation, which makes
// "not started" indistinguishable from "empty" on purpose.
type Manager struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

func NewManager() *Manager {
	return &Manager{conversations: make(map[string]*Conversation)}
}

// GetOrCreate returns the conversation for id, creating an empty one on first
// reference. The second return reports whether this call created it.
func (m *Manager) GetOrCreate(id string) (Conversation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, created := m.locked(id)
	return snapshot(c), created
}

// AppendTurn appends one turn to the conversation, creating it if needed.
func (m *Manager) AppendTurn(id string, turn Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, _ := m.locked(id)
	c.Turns = append(c.Turns, turn)
}

// Transcript returns the ordered turns of the conversation. An unseen id
// yields a freshly created empty transcript, never an error.
func (m *Manager) Transcript(id string) []Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, _ := m.locked(id)
	out := make([]Turn, len(c.Turns))
	copy(out, c.Turns)
	return out
}

// ListRecent returns all conversation ids, most recently created first.
func (m *Manager) ListRecent() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]*Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	ids := make([]string, len(all))
	for i, c := range all {
		ids[i] = c.ID
	}
	return ids
}

// HasDocument reports whether a document with the given filename was already
// ingested into the conversation.
func (m *Manager) HasDocument(id, filename string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conversations[id]
	if !ok {
		return false
	}
	marker := DocumentPrefix + filename
	for _, t := range c.Turns {
		if t.Role == RoleSystem && strings.HasPrefix(t.Content, marker) {
			return true
		}
	}
	return false
}

// Count returns the number of known conversations.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conversations)
}

func (m *Manager) locked(id string) (*Conversation, bool) {
	if c, ok := m.conversations[id]; ok {
		return c, false
	}
	c := &Conversation{ID: id, CreatedAt: time.Now().UTC()}
	m.conversations[id] = c
	return c, true
}

func snapshot(c *Conversation) Conversation {
	out := Conversation{ID: c.ID, CreatedAt: c.CreatedAt}
	out.Turns = make([]Turn, len(c.Turns))
	copy(out.Turns, c.Turns)
	return out
}
