// Package batch owns editor sessions and drives photo submissions through
// the per-credential rate limiter to the generation provider.
package batch

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/id-photo-studio/internal/config"
	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/phambaophuc/id-photo-studio/internal/services/generator"
	"github.com/phambaophuc/id-photo-studio/internal/services/ratelimit"
	"go.uber.org/zap"
)

type Archiver interface {
	ArchiveResult(ctx context.Context, sessionID string, item models.BatchItem) (*models.ArchivedResult, error)
}

type EventPublisher interface {
	PublishItemEvent(ctx context.Context, event models.ItemEvent) error
}

type Option func(*Processor)

func WithArchiver(archiver Archiver) Option {
	return func(p *Processor) { p.archiver = archiver }
}

func WithEventPublisher(events EventPublisher) Option {
	return func(p *Processor) { p.events = events }
}

// WithSleep replaces the timed pauses of a batch run.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Processor) { p.sleep = sleep }
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithFallbackCredential is used for sessions without their own API key.
func WithFallbackCredential(credential string) Option {
	return func(p *Processor) { p.fallbackCredential = credential }
}

type Processor struct {
	registry  *ratelimit.Registry
	generator generator.Generator
	archiver  Archiver
	events    EventPublisher
	logger    *zap.Logger

	generationTimeout  time.Duration
	interRequestDelay  time.Duration
	safetyMargin       time.Duration
	fallbackCredential string

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func NewProcessor(
	registry *ratelimit.Registry,
	gen generator.Generator,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...Option,
) *Processor {
	p := &Processor{
		registry:          registry,
		generator:         gen,
		logger:            logger,
		generationTimeout: cfg.Generator.Timeout,
		interRequestDelay: cfg.RateLimit.InterRequestDelay,
		safetyMargin:      cfg.RateLimit.SafetyMargin,
		sleep:             sleepContext,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SubmitOne attempts generation for a single pending item exactly once.
// Admission is recorded before the provider is called so concurrent
// submissions cannot both take the last slot.
func (p *Processor) SubmitOne(ctx context.Context, s *Session, itemID string) (models.BatchItem, error) {
	credential := p.credentialFor(s)

	s.mu.Lock()
	item := s.find(itemID)
	if item == nil {
		s.mu.Unlock()
		return models.BatchItem{}, ErrItemNotFound
	}
	if item.Status != models.StatusPending {
		snapshot := item.Clone()
		s.mu.Unlock()
		return snapshot, ErrItemNotPending
	}
	if credential == "" {
		snapshot := item.Clone()
		s.mu.Unlock()
		return snapshot, &SubmissionError{Kind: KindNoCredential}
	}

	limiter := p.registry.For(credential)
	if ok, wait := limiter.TryAdmit(); !ok {
		snapshot := item.Clone()
		s.mu.Unlock()
		p.logger.Info("Submission rejected by rate limiter",
			zap.String("session_id", s.ID),
			zap.String("item_id", itemID),
			zap.Duration("wait", wait))
		return snapshot, &SubmissionError{Kind: KindRateLimited, WaitSeconds: ratelimit.WaitSeconds(wait)}
	}

	source, settings, snapshot := p.startProcessing(s, item)
	s.mu.Unlock()
	p.publish(s.ID, snapshot)

	return p.generate(ctx, s, itemID, source, settings, credential)
}

// SubmitAll processes every item pending at invocation time, one provider
// call at a time. The run is aborted before any call when the current window
// cannot fit all of them. Per-item failures do not stop the run.
func (p *Processor) SubmitAll(ctx context.Context, s *Session) (*models.BatchRun, error) {
	credential := p.credentialFor(s)

	s.mu.Lock()
	pending, limiter, err := p.preflight(s, credential)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.batchRunning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.batchRunning = false
		s.mu.Unlock()
	}()

	run := &models.BatchRun{
		ID:        uuid.New().String(),
		SessionID: s.ID,
		Total:     len(pending),
		StartedAt: p.now(),
	}

	p.logger.Info("Batch started",
		zap.String("run_id", run.ID),
		zap.String("session_id", s.ID),
		zap.Int("items", run.Total))

	calls := 0
	for _, itemID := range pending {
		if ctx.Err() != nil {
			run.Cancelled = true
			break
		}

		if !p.stillPending(s, itemID) {
			run.Skipped++
			continue
		}

		if calls > 0 {
			if err := p.sleep(ctx, p.interRequestDelay); err != nil {
				run.Cancelled = true
				break
			}
		}

		source, settings, outcome := p.admitQueued(ctx, s, limiter, itemID)
		if outcome == admitSkipped {
			run.Skipped++
			continue
		}
		if outcome == admitCancelled {
			run.Cancelled = true
			break
		}

		calls++
		if _, err := p.generate(ctx, s, itemID, source, settings, credential); err != nil {
			run.Failed++
			continue
		}
		run.Completed++
	}

	run.FinishedAt = p.now()
	p.logger.Info("Batch finished",
		zap.String("run_id", run.ID),
		zap.String("session_id", s.ID),
		zap.Int("completed", run.Completed),
		zap.Int("failed", run.Failed),
		zap.Int("skipped", run.Skipped),
		zap.Bool("cancelled", run.Cancelled))

	return run, nil
}

// Preflight runs the checks SubmitAll starts with, without starting a run.
// It returns the number of pending items.
func (p *Processor) Preflight(s *Session) (int, error) {
	credential := p.credentialFor(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	pending, _, err := p.preflight(s, credential)
	return len(pending), err
}

// preflight must be called with s.mu held.
func (p *Processor) preflight(s *Session, credential string) ([]string, *ratelimit.Limiter, error) {
	if s.batchRunning {
		return nil, nil, ErrBatchInProgress
	}
	if credential == "" {
		return nil, nil, &SubmissionError{Kind: KindNoCredential}
	}

	pending := s.pendingIDs()
	limiter := p.registry.For(credential)
	if available := limiter.RemainingCapacity(); available < len(pending) {
		return nil, nil, &QuotaError{Available: available, Waiting: len(pending) - available}
	}
	return pending, limiter, nil
}

// Quota reports the session's admission state without consuming anything.
func (p *Processor) Quota(s *Session) models.QuotaStatus {
	credential := p.credentialFor(s)
	if credential == "" {
		return models.QuotaStatus{Limit: p.registry.Quota(), Remaining: p.registry.Quota()}
	}
	return p.registry.For(credential).Snapshot()
}

func (p *Processor) HasCredential(s *Session) bool {
	return p.credentialFor(s) != ""
}

type admitOutcome int

const (
	admitted admitOutcome = iota
	admitSkipped
	admitCancelled
)

// admitQueued blocks until the limiter admits the item, then marks it
// processing. Items removed or taken by another submission meanwhile are
// skipped without consuming a slot.
func (p *Processor) admitQueued(ctx context.Context, s *Session, limiter *ratelimit.Limiter, itemID string) ([]byte, models.PhotoSettings, admitOutcome) {
	for {
		s.mu.Lock()
		item := s.find(itemID)
		if item == nil || item.Status != models.StatusPending {
			s.mu.Unlock()
			return nil, models.PhotoSettings{}, admitSkipped
		}

		ok, wait := limiter.TryAdmit()
		if ok {
			source, settings, snapshot := p.startProcessing(s, item)
			s.mu.Unlock()
			p.publish(s.ID, snapshot)
			return source, settings, admitted
		}
		s.mu.Unlock()

		p.logger.Info("Batch waiting for rate limit window",
			zap.String("session_id", s.ID),
			zap.String("item_id", itemID),
			zap.Duration("wait", wait+p.safetyMargin))

		if err := p.sleep(ctx, wait+p.safetyMargin); err != nil {
			return nil, models.PhotoSettings{}, admitCancelled
		}
	}
}

func (p *Processor) stillPending(s *Session, itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.find(itemID)
	return item != nil && item.Status == models.StatusPending
}

// startProcessing must be called with s.mu held and an admitted item.
func (p *Processor) startProcessing(s *Session, item *models.BatchItem) ([]byte, models.PhotoSettings, models.BatchItem) {
	now := p.now()
	_ = item.Transition(models.StatusProcessing, now)
	s.lastActive = now
	return item.SourceImage, s.settings, item.Clone()
}

// generate runs the provider call for an item already marked processing. The
// call is detached from ctx cancellation and bounded by the generation
// timeout instead, so an admitted call always reaches a terminal state.
func (p *Processor) generate(ctx context.Context, s *Session, itemID string, source []byte, settings models.PhotoSettings, credential string) (models.BatchItem, error) {
	callCtx := context.WithoutCancel(ctx)
	if p.generationTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, p.generationTimeout)
		defer cancel()
	}

	start := p.now()
	result, genErr := p.generator.Generate(callCtx, source, settings, credential)

	s.mu.Lock()
	item := s.find(itemID)
	if item == nil {
		s.mu.Unlock()
		return models.BatchItem{}, ErrItemNotFound
	}

	if genErr != nil {
		providerErr := generator.Classify(genErr)
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			providerErr = &generator.ProviderError{Kind: generator.KindUnknown, Message: "generation timed out", Err: genErr}
		}
		subErr := &SubmissionError{Kind: KindProviderFailure, Provider: providerErr.Kind, Message: providerErr.Message}
		_ = item.Fail(subErr.Error(), p.now())
		snapshot := item.Clone()
		s.mu.Unlock()
		p.publish(s.ID, snapshot)

		p.logger.Warn("Generation failed",
			zap.String("session_id", s.ID),
			zap.String("item_id", itemID),
			zap.String("kind", string(providerErr.Kind)),
			zap.Duration("elapsed", p.now().Sub(start)),
			zap.Error(genErr))
		return snapshot, subErr
	}

	_ = item.Complete(result, p.now())
	snapshot := item.Clone()
	s.mu.Unlock()

	p.logger.Info("Generation completed",
		zap.String("session_id", s.ID),
		zap.String("item_id", itemID),
		zap.Int("result_bytes", len(result)),
		zap.Duration("elapsed", p.now().Sub(start)))

	if url := p.archive(ctx, s, snapshot); url != "" {
		s.mu.Lock()
		if item := s.find(itemID); item != nil {
			item.ResultURL = url
		}
		s.mu.Unlock()
		snapshot.ResultURL = url
	}
	p.publish(s.ID, snapshot)

	return snapshot, nil
}

func (p *Processor) archive(ctx context.Context, s *Session, item models.BatchItem) string {
	if p.archiver == nil {
		return ""
	}
	archived, err := p.archiver.ArchiveResult(context.WithoutCancel(ctx), s.ID, item)
	if err != nil {
		p.logger.Warn("Failed to archive result",
			zap.String("session_id", s.ID),
			zap.String("item_id", item.ID),
			zap.Error(err))
		return ""
	}
	return archived.URL
}

func (p *Processor) credentialFor(s *Session) string {
	if credential := s.Credential(); credential != "" {
		return credential
	}
	return p.fallbackCredential
}

func (p *Processor) publish(sessionID string, item models.BatchItem) {
	if p.events == nil {
		return
	}
	event := models.ItemEvent{
		SessionID: sessionID,
		ItemID:    item.ID,
		Status:    item.Status,
		Error:     item.Error,
		ResultURL: item.ResultURL,
		Timestamp: p.now(),
	}
	if err := p.events.PublishItemEvent(context.Background(), event); err != nil {
		p.logger.Warn("Failed to publish item event",
			zap.String("item_id", item.ID),
			zap.Error(err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
