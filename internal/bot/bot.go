package bot

import (
	"context"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/ahleite/plannito-bot/internal/backend"
	"github.com/ahleite/plannito-bot/internal/category"
	"github.com/ahleite/plannito-bot/internal/charts"
	"github.com/ahleite/plannito-bot/internal/classifier"
	"github.com/ahleite/plannito-bot/internal/model"
	"github.com/ahleite/plannito-bot/internal/service"
	"github.com/ahleite/plannito-bot/internal/store"
)

// Message is one inbound chat message. From identifies the user for
// the whole conversation.
type Message struct {
	From string
	Body string
}

// Transport is the outbound side of the chat channel.
type Transport interface {
	SendText(ctx context.Context, to, text string) error
	SendPhoto(ctx context.Context, to string, photo []byte, caption string) error
}

// Backend is the slice of the Planno API the flows need.
type Backend interface {
	Session(ctx context.Context) (*backend.Session, error)
	ListAccounts(ctx context.Context) ([]model.BankAccount, error)
	RecordTransaction(ctx context.Context, draft *model.Draft) error
}

// Handler is one stage of the dispatch chain. Returning true claims
// the message; no later handler runs for it.
type Handler interface {
	Handle(ctx context.Context, sess *session, msg Message) (bool, error)
}

// Options wires a Bot together.
type Options struct {
	Transport  Transport
	Backend    Backend
	Classifier classifier.Classifier
	Store      *store.Store
	Ledger     *service.Ledger
	Resolver   *category.Resolver
	Charts     *charts.Generator
	Logger     *slog.Logger

	// ReplyTimeout bounds the wait for an account-selection reply.
	// PendingTTL expires stale yes/no confirmations (0 = never).
	ReplyTimeout time.Duration
	PendingTTL   time.Duration
}

// Bot routes each inbound message through the ordered handler chain,
// one user at a time. Messages from different users are processed in
// parallel; messages from the same user strictly in order.
type Bot struct {
	transport  Transport
	backend    Backend
	classifier classifier.Classifier
	store      *store.Store
	ledger     *service.Ledger
	resolver   *category.Resolver
	charts     *charts.Generator
	logger     *slog.Logger

	replyTimeout time.Duration
	pendingTTL   time.Duration

	handlers []Handler

	mu       sync.Mutex
	sessions map[string]*session
}

func New(opts Options) *Bot {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ReplyTimeout <= 0 {
		opts.ReplyTimeout = 30 * time.Second
	}
	if opts.Resolver == nil {
		opts.Resolver = category.NewResolver(nil)
	}
	if opts.Ledger == nil {
		opts.Ledger = service.NewLedger()
	}
	if opts.Charts == nil {
		opts.Charts = charts.NewGenerator()
	}

	b := &Bot{
		transport:    opts.Transport,
		backend:      opts.Backend,
		classifier:   opts.Classifier,
		store:        opts.Store,
		ledger:       opts.Ledger,
		resolver:     opts.Resolver,
		charts:       opts.Charts,
		logger:       opts.Logger,
		replyTimeout: opts.ReplyTimeout,
		pendingTTL:   opts.PendingTTL,
		sessions:     make(map[string]*session),
	}

	// The chain order is the state machine's transition table: cheap
	// greetings first, then account selection (nothing financial runs
	// without an account), then pending yes/no answers (they must not
	// reach the classifier), then keyword shortcuts, and the
	// classifier-driven transaction path as the fallback.
	b.handlers = []Handler{
		&greetingHandler{bot: b},
		&accountSelectionHandler{bot: b},
		&pendingHandler{bot: b},
		&shortcutsHandler{bot: b},
		&transactionHandler{bot: b},
	}

	return b
}

// Dispatch queues an inbound message for its user's session worker.
func (b *Bot) Dispatch(ctx context.Context, msg Message) {
	if strings.TrimSpace(msg.Body) == "" {
		b.logger.Warn("empty message received", "from", msg.From)
		return
	}

	sess := b.getSession(ctx, msg.From)
	select {
	case sess.inbox <- msg:
	default:
		b.logger.Warn("session inbox full, dropping message", "from", msg.From)
	}
}

func (b *Bot) getSession(ctx context.Context, userID string) *session {
	b.mu.Lock()
	defer b.mu.Unlock()

	sess, ok := b.sessions[userID]
	if !ok {
		sess = newSession(userID)
		b.sessions[userID] = sess
		go sess.run(ctx, b)
	}
	return sess
}

// process runs one message through the chain. A panic anywhere in
// dispatch is caught here so the channel never sees an unhandled
// failure.
func (b *Bot) process(ctx context.Context, sess *session, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while handling message",
				"from", msg.From,
				"body", msg.Body,
				"panic", r,
				"stack", string(debug.Stack()))
			b.send(ctx, msg.From, errorResponse())
		}
	}()

	for _, h := range b.handlers {
		handled, err := h.Handle(ctx, sess, msg)
		if err != nil {
			b.logger.Error("handler failed", "from", msg.From, "body", msg.Body, "err", err)
			b.send(ctx, msg.From, errorResponse())
			return
		}
		if handled {
			return
		}
	}
}

// send delivers text to the user, suppressing blank messages and
// swallowing transport failures: message loss is tolerated here, the
// conversation must not abort because of it.
func (b *Bot) send(ctx context.Context, to, text string) {
	if strings.TrimSpace(text) == "" {
		b.logger.Warn("suppressed empty outbound message", "to", to)
		return
	}
	if err := b.transport.SendText(ctx, to, text); err != nil {
		b.logger.Error("failed to send message", "to", to, "err", err)
	}
}

func (b *Bot) sendPhoto(ctx context.Context, to string, photo []byte, caption string) {
	if len(photo) == 0 {
		return
	}
	if err := b.transport.SendPhoto(ctx, to, photo, caption); err != nil {
		b.logger.Error("failed to send photo", "to", to, "err", err)
	}
}
