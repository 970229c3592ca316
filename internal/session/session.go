// Package session owns the editing state of one website: the document, the
// editing mode and the selected image.
package session

import (
	"context"
	"sync"

	"sitecraft/internal/document"
	"sitecraft/internal/preview"
	"sitecraft/internal/types"
)

// Gateway is the remote generative capability.
type Gateway interface {
	GenerateWebsiteCode(ctx context.Context, description string) (types.Document, error)
	EnhancePrompt(ctx context.Context, idea string) (string, error)
	ApplyCodeModifications(ctx context.Context, originalCode, modificationRequest string) (string, error)
	GenerateImage(ctx context.Context, description string) (string, error)
}

// Action names a user action guarded against duplicate submission.
type Action string

const (
	ActionEnhance  Action = "enhance"
	ActionGenerate Action = "generate"
	ActionModify   Action = "modify"
	ActionImage    Action = "image"
)

type EventType string

const (
	EventDocumentChanged  EventType = "document-changed"
	EventSelectionChanged EventType = "selection-changed"
)

// Event is delivered to subscribers after a state change.
type Event struct {
	Type  EventType `json:"type"`
	State Snapshot  `json:"state"`
}

// Selection is the image currently targeted for replacement.
type Selection struct {
	types.ImageReference
	Label string `json:"label"`
}

// Snapshot is a consistent copy of the session state.
type Snapshot struct {
	Document  types.Document    `json:"document"`
	Mode      types.EditingMode `json:"mode"`
	Selection *Selection        `json:"selection"`
	Version   string            `json:"version"`
	HasCode   bool              `json:"hasCode"`
	Busy      []Action          `json:"busy"`
}

// Session is safe for concurrent use.
type Session struct {
	gateway Gateway
	store   *document.Store

	mu          sync.Mutex
	mode        types.EditingMode
	selection   *Selection
	busy        map[Action]bool
	subscribers map[int]func(Event)
	nextSubID   int
}

func New(gateway Gateway) *Session {
	return &Session{
		gateway:     gateway,
		store:       document.NewStore(),
		mode:        types.ModeRefine,
		busy:        make(map[Action]bool),
		subscribers: make(map[int]func(Event)),
	}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	doc := s.store.Current()
	snap := Snapshot{
		Document: doc,
		Mode:     s.mode,
		Version:  preview.Version(doc, s.mode),
		HasCode:  !doc.IsEmpty(),
	}
	if s.selection != nil {
		sel := *s.selection
		snap.Selection = &sel
	}
	for _, a := range []Action{ActionEnhance, ActionGenerate, ActionModify, ActionImage} {
		if s.busy[a] {
			snap.Busy = append(snap.Busy, a)
		}
	}
	return snap
}

// Subscribe registers fn for state change events. The returned function
// removes the subscription. fn must not block.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Session) publish(t EventType) {
	s.mu.Lock()
	ev := Event{Type: t, State: s.snapshotLocked()}
	subs := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (s *Session) begin(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[a] {
		return userError("Please wait", "This action is already in progress.", ErrBusy)
	}
	s.busy[a] = true
	return nil
}

func (s *Session) end(a Action) {
	s.mu.Lock()
	delete(s.busy, a)
	s.mu.Unlock()
}

// clearSelection drops the selection and reports whether there was one.
func (s *Session) clearSelection() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.selection != nil
	s.selection = nil
	return had
}

// clearSelectionIf drops the selection only if it is still sel.
func (s *Session) clearSelectionIf(sel *Selection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection != sel {
		return false
	}
	s.selection = nil
	return true
}

// SetMode switches the editing mode. Leaving image mode drops the selection.
func (s *Session) SetMode(mode types.EditingMode) error {
	if !mode.Valid() {
		return userError("Unknown mode", "Choose refine or images.", ErrInvalidMode)
	}

	s.mu.Lock()
	changed := s.mode != mode
	s.mode = mode
	cleared := false
	if mode != types.ModeImages && s.selection != nil {
		s.selection = nil
		cleared = true
	}
	s.mu.Unlock()

	if cleared {
		s.publish(EventSelectionChanged)
	}
	if changed {
		s.publish(EventDocumentChanged)
	}
	return nil
}
