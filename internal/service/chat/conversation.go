package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smartfarm/assistant/backend/internal/model/chat"
	"github.com/smartfarm/assistant/backend/internal/service/reply"
)

const greetingFormat = "Hello %s! I'm your AI farming assistant. I can help you with crop recommendations, " +
	"irrigation schedules, pest management, and more. What would you like to know?"

// Greeting is the seeded first entry of every conversation.
func Greeting(name string) string {
	return fmt.Sprintf(greetingFormat, name)
}

// Conversation owns one session's message log and pending flag.
// At most one reply is outstanding and the log only ever grows.
type Conversation struct {
	sessionID string
	profile   chat.Profile
	resolver  reply.Resolver
	log       zerolog.Logger

	// ctx bounds in-flight resolutions and is cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	messages    []chat.Message
	seq         int64
	pending     bool
	idle        chan struct{}
	closed      bool
	subscribers map[int]chan chat.Snapshot
	nextSubID   int
}

// NewConversation returns a conversation seeded with the greeting for profile.
func NewConversation(sessionID string, profile chat.Profile, resolver reply.Resolver, log zerolog.Logger) *Conversation {
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)

	c := &Conversation{
		sessionID:   sessionID,
		profile:     profile,
		resolver:    resolver,
		log:         log.With().Str("component", "conversation").Str("session", sessionID).Logger(),
		ctx:         ctx,
		cancel:      cancel,
		idle:        idle,
		subscribers: make(map[int]chan chat.Snapshot),
	}
	c.seedLocked()
	return c
}

// SessionID returns the identifier the conversation was created with.
func (c *Conversation) SessionID() string {
	return c.sessionID
}

// Profile returns the session's profile.
func (c *Conversation) Profile() chat.Profile {
	return c.profile
}

// Submit appends the user's text and starts resolving a reply in the background.
// It fails with ErrReplyPending while an earlier reply is still outstanding.
func (c *Conversation) Submit(_ context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConversationClosed
	}
	if c.pending {
		return ErrReplyPending
	}

	history := make([]chat.Message, len(c.messages))
	copy(history, c.messages)

	c.appendLocked(chat.SenderUser, text)
	c.pending = true
	done := make(chan struct{})
	c.idle = done
	c.publishLocked()

	req := reply.Request{
		Text:        text,
		DisplayName: c.profile.Name,
		FarmID:      c.profile.FarmID,
		History:     history,
	}
	go c.resolve(req, done)
	return nil
}

func (c *Conversation) resolve(req reply.Request, done chan struct{}) {
	started := time.Now()
	text := c.callResolver(req)
	if strings.TrimSpace(text) == "" {
		text = reply.FallbackText
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	defer close(done)

	c.pending = false
	if c.closed {
		c.log.Debug().Msg("dropping reply for closed conversation")
		return
	}

	c.appendLocked(chat.SenderAssistant, text)
	c.publishLocked()
	c.log.Debug().Dur("elapsed", time.Since(started)).Int("messages", len(c.messages)).Msg("reply appended")
}

// callResolver shields the conversation from a misbehaving resolver.
func (c *Conversation) callResolver(req reply.Request) (text string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("reply resolver panicked, using fallback")
			text = reply.FallbackText
		}
	}()
	return c.resolver.Resolve(c.ctx, req)
}

// Wait blocks until no reply is pending or ctx is done.
func (c *Conversation) Wait(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports whether a reply is outstanding.
func (c *Conversation) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Messages returns a copy of the log.
func (c *Conversation) Messages() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyMessagesLocked()
}

// Snapshot returns the log, the pending flag and the newest entry id.
func (c *Conversation) Snapshot() chat.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe delivers a snapshot now and after every change. A slow reader
// only sees the latest snapshot. The channel is closed by the returned
// cancel func or when the conversation closes.
func (c *Conversation) Subscribe() (<-chan chat.Snapshot, func()) {
	ch := make(chan chat.Snapshot, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	ch <- c.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if sub, ok := c.subscribers[id]; ok {
				delete(c.subscribers, id)
				close(sub)
			}
		})
	}
}

// Close tears the conversation down. An in-flight reply is cancelled and dropped.
func (c *Conversation) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancel()

	for id, sub := range c.subscribers {
		delete(c.subscribers, id)
		close(sub)
	}
}

func (c *Conversation) seedLocked() {
	c.appendLocked(chat.SenderAssistant, Greeting(c.profile.Name))
}

func (c *Conversation) appendLocked(sender chat.Sender, text string) chat.Message {
	c.seq++
	msg := chat.Message{
		ID:        uuid.NewString(),
		Seq:       c.seq,
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	c.messages = append(c.messages, msg)
	return msg
}

func (c *Conversation) copyMessagesLocked() []chat.Message {
	copied := make([]chat.Message, len(c.messages))
	copy(copied, c.messages)
	return copied
}

func (c *Conversation) snapshotLocked() chat.Snapshot {
	snap := chat.Snapshot{
		SessionID: c.sessionID,
		Messages:  c.copyMessagesLocked(),
		Pending:   c.pending,
	}
	if n := len(c.messages); n > 0 {
		snap.LatestID = c.messages[n-1].ID
	}
	return snap
}

// publishLocked hands the current snapshot to every subscriber without blocking.
func (c *Conversation) publishLocked() {
	if len(c.subscribers) == 0 {
		return
	}

	snap := c.snapshotLocked()
	for _, sub := range c.subscribers {
		select {
		case sub <- snap:
		default:
			select {
			case <-sub:
			default:
			}
			sub <- snap
		}
	}
}
