package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hupe1980/attendeeguide/core"
	"github.com/hupe1980/attendeeguide/logging"
)

// DefaultDigestCap bounds FetchSummary output in bytes.
const DefaultDigestCap = 4000

// Identity is a bound attendee and the durable-memory scope derived from it.
type Identity struct {
	UserID    string `json:"user_id"`
	Actor     string `json:"actor"`
	Session   string `json:"session"`
	Namespace string `json:"namespace"`
}

// NewIdentity derives the actor, session and namespace for userID.
func NewIdentity(userID string) Identity {
	actor := "user_" + userID
	return Identity{
		UserID:    userID,
		Actor:     actor,
		Session:   "session_" + actor,
		Namespace: "/users/" + actor,
	}
}

// BridgeOptions configures a Bridge.
type BridgeOptions struct {
	// DigestCap bounds the digest size in bytes. Zero disables the cap.
	DigestCap int
	// NoInformation is returned by FetchSummary when nothing is known.
	NoInformation string
	Logger        logging.Logger
}

// Bridge connects one session to a durable memory Provider.
type Bridge struct {
	provider      Provider
	sessionID     string
	digestCap     int
	noInformation string
	logger        logging.Logger

	mu       sync.RWMutex
	identity *Identity
}

// NewBridge creates an unbound bridge for sessionID.
func NewBridge(provider Provider, sessionID string, optFns ...func(o *BridgeOptions)) *Bridge {
	opts := BridgeOptions{
		DigestCap:     DefaultDigestCap,
		NoInformation: "no information available",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Bridge{
		provider:      provider,
		sessionID:     sessionID,
		digestCap:     opts.DigestCap,
		noInformation: opts.NoInformation,
		logger:        logging.OrNoOp(opts.Logger),
	}
}

// Bind establishes the attendee binding. Binding the same userID again is a
// no-op (bound=false). A different userID fails with core.ErrIdentityConflict.
func (b *Bridge) Bind(userID string) (id Identity, bound bool, err error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Identity{}, false, fmt.Errorf("user id is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.identity != nil {
		if b.identity.UserID == userID {
			return *b.identity, false, nil
		}
		return *b.identity, false, fmt.Errorf("%w: session already bound to %q", core.ErrIdentityConflict, b.identity.UserID)
	}

	ident := NewIdentity(userID)
	b.identity = &ident
	b.logger.Info("memory.bind", "session_id", b.sessionID, "user_id", userID, "namespace", ident.Namespace)

	return ident, true, nil
}

// Identity returns the bound identity, if any.
func (b *Bridge) Identity() (Identity, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.identity == nil {
		return Identity{}, false
	}
	return *b.identity, true
}

// scope returns the write scope: the attendee namespace once bound, the
// session conversation log otherwise.
func (b *Bridge) scope() (actor, session, namespace string) {
	if ident, ok := b.Identity(); ok {
		return ident.Actor, ident.Session, ident.Namespace
	}
	return b.sessionID, b.sessionID, "/sessions/" + b.sessionID
}

// Record forwards one turn. Provider failures are logged and swallowed.
func (b *Bridge) Record(ctx context.Context, role, text string) {
	actor, session, namespace := b.scope()
	err := b.provider.Write(ctx, Record{
		Actor:     actor,
		Session:   session,
		Namespace: namespace,
		Role:      role,
		Text:      text,
	})
	if err != nil {
		b.logger.Error("memory.record.failed", "session_id", b.sessionID, "role", role, "namespace", namespace, "error", err.Error())
	}
}

// Remember stores an explicit attendee fact. It requires a bound identity.
func (b *Bridge) Remember(ctx context.Context, fact string) error {
	ident, ok := b.Identity()
	if !ok {
		return fmt.Errorf("no attendee identity bound")
	}
	fact = strings.TrimSpace(fact)
	if fact == "" {
		return fmt.Errorf("fact is required")
	}
	return b.provider.Write(ctx, Record{
		Actor:     ident.Actor,
		Session:   ident.Session,
		Namespace: ident.Namespace,
		Role:      RoleFact,
		Text:      fact,
	})
}

// Recall searches the bound attendee's memory, newest first.
func (b *Bridge) Recall(ctx context.Context, query string, limit int) ([]Record, error) {
	ident, ok := b.Identity()
	if !ok {
		return nil, fmt.Errorf("no attendee identity bound")
	}
	return b.provider.Search(ctx, ident.Actor, ident.Namespace, query, limit)
}

// FetchSummary returns a digest of what the attendee has told us, or the
// NoInformation sentinel when unbound, empty or unreachable. The digest is
// capped at DigestCap bytes, keeping the newest entries.
func (b *Bridge) FetchSummary(ctx context.Context) string {
	ident, ok := b.Identity()
	if !ok {
		return b.noInformation
	}

	recs, err := b.provider.ReadAll(ctx, ident.Actor, ident.Namespace)
	if err != nil {
		b.logger.Error("memory.fetch.failed", "session_id", b.sessionID, "user_id", ident.UserID, "error", err.Error())
		return b.noInformation
	}

	lines := make([]string, 0, len(recs))
	for _, r := range recs {
		if r.Role == RoleAssistant {
			continue
		}
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- [%s] %s", r.Role, text))
	}
	if len(lines) == 0 {
		return b.noInformation
	}

	return capDigest(lines, b.digestCap)
}

// capDigest joins lines and keeps the newest ones that fit in max bytes. A
// single oversized line is truncated on a rune boundary.
func capDigest(lines []string, max int) string {
	if max <= 0 {
		return strings.Join(lines, "\n")
	}

	size := 0
	start := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		n := len(lines[i])
		if start < len(lines) {
			n++ // newline
		}
		if size+n > max {
			break
		}
		size += n
		start = i
	}

	if start == len(lines) {
		return truncateRunes(lines[len(lines)-1], max)
	}
	return strings.Join(lines[start:], "\n")
}

func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// WithDigestCap sets the digest size cap in bytes.
func WithDigestCap(n int) func(o *BridgeOptions) {
	return func(o *BridgeOptions) { o.DigestCap = n }
}

// WithNoInformation sets the sentinel returned when nothing is known.
func WithNoInformation(s string) func(o *BridgeOptions) {
	return func(o *BridgeOptions) { o.NoInformation = s }
}

// WithLogger sets the bridge logger.
func WithLogger(l logging.Logger) func(o *BridgeOptions) {
	return func(o *BridgeOptions) { o.Logger = l }
}
