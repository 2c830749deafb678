package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"messaging-service/internal/cache"
	"messaging-service/internal/models"
	"messaging-service/internal/notify"
	"messaging-service/internal/observability"
	"messaging-service/internal/repositories"
)

// Service runs every messaging command: load aggregates, apply one domain
// operation, persist, commit, then notify.
type Service struct {
	store      repositories.Store
	dispatcher *notify.Dispatcher
	unread     cache.UnreadCache
	guard      *Guard
	log        *zap.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithGuard shares a toggle guard between services.
func WithGuard(g *Guard) Option {
	return func(s *Service) { s.guard = g }
}

// New builds a Service. A nil cache disables unread caching.
func New(store repositories.Store, dispatcher *notify.Dispatcher, unread cache.UnreadCache, log *zap.Logger, opts ...Option) *Service {
	if unread == nil {
		unread = cache.Noop{}
	}
	s := &Service{
		store:      store,
		dispatcher: dispatcher,
		unread:     unread,
		guard:      NewGuard(),
		log:        log,
		tracer:     otel.Tracer("messaging-service/services"),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// outbox collects the side effects a command wants once it has committed.
type outbox struct {
	notifications []notify.Notification
	stale         []staleCounters
}

type staleCounters struct {
	scope   models.Scope
	userIDs []int
}

func (o *outbox) notify(n ...notify.Notification) {
	o.notifications = append(o.notifications, n...)
}

// invalidate marks the unread counters of userIDs in scope as stale.
func (o *outbox) invalidate(scope models.Scope, userIDs ...int) {
	if len(userIDs) == 0 {
		return
	}
	o.stale = append(o.stale, staleCounters{scope: scope, userIDs: userIDs})
}

// command runs fn in one transaction. Nothing in the outbox happens unless
// the transaction commits.
func (s *Service) command(ctx context.Context, name string, fn func(ctx context.Context, r repositories.Repos, out *outbox) error) error {
	ctx, span := s.tracer.Start(ctx, "command."+name)
	defer span.End()
	started := time.Now()

	var out outbox
	err := s.store.WithinTx(ctx, func(r repositories.Repos) error {
		out = outbox{}
		return fn(ctx, r, &out)
	})
	observability.ObserveCommand(name, started, err)
	if err != nil {
		s.fail(span, name, err)
		return err
	}

	s.flushCounters(ctx, out.stale)
	s.dispatcher.Dispatch(ctx, out.notifications...)
	return nil
}

// query runs fn outside a transaction.
func (s *Service) query(ctx context.Context, name string, fn func(ctx context.Context, r repositories.Repos) error) error {
	ctx, span := s.tracer.Start(ctx, "query."+name)
	defer span.End()
	started := time.Now()

	err := fn(ctx, s.store.Repos())
	observability.ObserveCommand(name, started, err)
	if err != nil {
		s.fail(span, name, err)
	}
	return err
}

func (s *Service) fail(span trace.Span, name string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	kind := models.KindOf(err)
	span.SetAttributes(attribute.String("error.kind", string(kind)))
	if kind == "" {
		s.log.Error("command failed", zap.String("command", name), zap.Error(err))
	}
}

func (s *Service) flushCounters(ctx context.Context, stale []staleCounters) {
	for _, st := range stale {
		if err := s.unread.Invalidate(ctx, st.scope, st.userIDs...); err != nil {
			s.log.Warn("unread cache invalidation failed", zap.Stringer("scope", st.scope), zap.Error(err))
		}
	}
}

// cachedUnread serves an unread counter from the cache, loading and
// storing it on a miss. Cache failures fall through to load. The store is
// skipped when the counter was invalidated while load ran.
func (s *Service) cachedUnread(ctx context.Context, scope models.Scope, userID int, load func() (int, error)) (int, error) {
	l, cacheErr := s.unread.Get(ctx, scope, userID)
	if cacheErr != nil {
		s.log.Warn("unread cache read failed", zap.Stringer("scope", scope), zap.Error(cacheErr))
	}
	if cacheErr == nil && l.Hit {
		observability.IncUnreadCache(true)
		return l.Count, nil
	}
	observability.IncUnreadCache(false)

	n, err := load()
	if err != nil {
		return 0, err
	}
	if cacheErr != nil {
		return n, nil
	}
	if err := s.unread.Set(ctx, scope, userID, n, l.Version); err != nil {
		s.log.Warn("unread cache write failed", zap.Stringer("scope", scope), zap.Error(err))
	}
	return n, nil
}

func event(typ string, scope models.Scope, payload any) models.Event {
	return models.Event{Type: typ, Scope: &scope, Payload: payload}
}

func without(ids []int, exclude int) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}
