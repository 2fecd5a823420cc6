package session

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/attendeeguide/logging"
)

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NoSummary is the Descriptor summary used when the describer fails.
const NoSummary = "no summary available"

// Turn is one message within a session. Turns are immutable once appended.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Descriptor is a rolling, non-authoritative summary of a session's turns.
type Descriptor struct {
	Summary   string    `json:"summary"`
	Topics    []string  `json:"topics,omitempty"`
	TurnCount int       `json:"turn_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is a read-only copy of a session's state.
type Snapshot struct {
	ID         string     `json:"id"`
	Turns      []Turn     `json:"turns"`
	Descriptor Descriptor `json:"descriptor"`
}

// Describer derives a Descriptor from the full turn sequence.
type Describer interface {
	Describe(turns []Turn) (Descriptor, error)
}

// Options configures a Session.
type Options struct {
	Describer Describer
	Logger    logging.Logger
	Clock     func() time.Time
}

// Session is one continuous conversation with one attendee.
type Session struct {
	id        string
	describer Describer
	logger    logging.Logger
	clock     func() time.Time

	mu         sync.RWMutex
	turns      []Turn
	descriptor Descriptor
}

// New creates an empty session. An empty id is replaced by NewID().
func New(id string, optFns ...func(o *Options)) *Session {
	opts := Options{
		Describer: NewKeywordDescriber(),
		Clock:     time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if id == "" {
		id = NewID()
	}
	return &Session{
		id:         id,
		describer:  opts.Describer,
		logger:     logging.OrNoOp(opts.Logger),
		clock:      opts.Clock,
		descriptor: Descriptor{Summary: NoSummary},
	}
}

// NewID returns a fresh identifier of the form session_<9 digits>.
func NewID() string {
	u := uuid.New()
	return fmt.Sprintf("session_%09d", binary.BigEndian.Uint64(u[:8])%1_000_000_000)
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Append adds a turn and recomputes the descriptor. It never fails: a
// describer error degrades the summary to NoSummary. Timestamps are strictly
// increasing even if the clock stalls or steps back.
func (s *Session) Append(role, text string) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.clock()
	if n := len(s.turns); n > 0 {
		if last := s.turns[n-1].Timestamp; !ts.After(last) {
			ts = last.Add(time.Nanosecond)
		}
	}

	turn := Turn{Role: role, Text: text, Timestamp: ts}
	s.turns = append(s.turns, turn)
	s.descriptor = s.describeLocked(ts)

	return turn
}

func (s *Session) describeLocked(now time.Time) (d Descriptor) {
	fallback := Descriptor{Summary: NoSummary, TurnCount: len(s.turns), UpdatedAt: now}
	if s.describer == nil {
		return fallback
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("session.describe.panic", "session_id", s.id, "recover", r)
			d = fallback
		}
	}()

	turns := make([]Turn, len(s.turns))
	copy(turns, s.turns)

	d, err := s.describer.Describe(turns)
	if err != nil {
		s.logger.Warn("session.describe.failed", "session_id", s.id, "error", err.Error())
		return fallback
	}
	if d.Summary == "" {
		d.Summary = NoSummary
	}
	d.TurnCount = len(s.turns)
	d.UpdatedAt = now
	return d
}

// Len returns the number of turns.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Descriptor returns the current descriptor.
func (s *Session) Descriptor() Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.descriptor
}

// Snapshot returns a copy of the turns and descriptor.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := make([]Turn, len(s.turns))
	copy(turns, s.turns)

	d := s.descriptor
	d.Topics = append([]string(nil), d.Topics...)

	return Snapshot{ID: s.id, Turns: turns, Descriptor: d}
}

// WithDescriber overrides the default KeywordDescriber.
func WithDescriber(d Describer) func(o *Options) {
	return func(o *Options) { o.Describer = d }
}

// WithLogger sets the session logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithClock overrides time.Now.
func WithClock(clock func() time.Time) func(o *Options) {
	return func(o *Options) { o.Clock = clock }
}
