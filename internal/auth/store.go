package auth

import (
	"context"
	"strconv"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/syrilster/attendance-timesheet-dashboard/internal/model"
)

const MinSafetyMargin = 60 * time.Second

type Issuer interface {
	IssueToken(ctx context.Context, cfg model.AuthConfig) (*model.IssuedToken, error)
}

// tokenSlot is the cache entry for one credential identity. users counts the callers
// and issuances currently holding it; an empty slot nobody holds is removed.
type tokenSlot struct {
	token      *model.CachedToken
	generation uint64
	users      int
}

// TokenStore caches issued tokens per credential identity. Issuance for one identity
// is single flight: concurrent callers share the result of one exchange.
type TokenStore struct {
	issuer Issuer
	margin time.Duration
	now    func() time.Time

	mu         sync.Mutex
	slots      map[string]*tokenSlot
	generation uint64
	group      singleflight.Group
}

type StoreOption func(*TokenStore)

// WithSafetyMargin sets how long before expiry a token is refreshed. Values below
// MinSafetyMargin are raised to it.
func WithSafetyMargin(margin time.Duration) StoreOption {
	return func(s *TokenStore) {
		if margin < MinSafetyMargin {
			margin = MinSafetyMargin
		}
		s.margin = margin
	}
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *TokenStore) {
		s.now = now
	}
}

func NewTokenStore(issuer Issuer, options ...StoreOption) *TokenStore {
	s := &TokenStore{
		issuer: issuer,
		margin: MinSafetyMargin,
		now:    time.Now,
		slots:  make(map[string]*tokenSlot),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Token returns a cached token for cfg, issuing a new one when none is cached or
// the cached one is within the safety margin of its expiry. The exchange itself is
// not tied to ctx: a caller that gives up returns ctx.Err() while the exchange
// completes for everyone else waiting on it.
func (s *TokenStore) Token(ctx context.Context, cfg model.AuthConfig) (string, error) {
	key := cfg.Identity()

	s.mu.Lock()
	slot := s.slot(key)
	if slot.token != nil && s.now().Before(slot.token.RefreshAt) {
		value := slot.token.Value
		s.mu.Unlock()
		return value, nil
	}
	generation := slot.generation
	slot.users++
	s.mu.Unlock()
	defer s.release(key, slot)

	ch := s.group.DoChan(key+"/"+strconv.FormatUint(generation, 10), func() (interface{}, error) {
		return s.issue(ctx, cfg, key, slot)
	})

	select {
	case <-ctx.Done():
		log.WithContext(ctx).WithError(ctx.Err()).Info("stopped waiting for attendance API token")
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			log.WithContext(ctx).WithError(res.Err).Error("failed to issue attendance API token")
			return "", res.Err
		}
		if res.Shared {
			log.WithContext(ctx).Debug("joined in-flight token issuance")
		}
		return res.Val.(string), nil
	}
}

func (s *TokenStore) issue(ctx context.Context, cfg model.AuthConfig, key string, slot *tokenSlot) (interface{}, error) {
	s.mu.Lock()
	slot.users++
	s.mu.Unlock()
	defer s.release(key, slot)

	issued, err := s.issuer.IssueToken(context.WithoutCancel(ctx), cfg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	margin := s.margin
	if issued.TTL <= margin {
		log.WithContext(ctx).Warnf("issued token lifetime %s is within the refresh margin %s, refreshing at half its lifetime", issued.TTL, margin)
		margin = issued.TTL / 2
	}

	// an invalidation that happened while issuing wins over this result
	if s.slots[key] == slot {
		expiresAt := now.Add(issued.TTL)
		slot.token = &model.CachedToken{
			Value:     issued.Token,
			ExpiresAt: expiresAt,
			RefreshAt: expiresAt.Add(-margin),
		}
	}
	s.pruneExpired(now)
	return issued.Token, nil
}

// Invalidate drops the cached token for cfg.
func (s *TokenStore) Invalidate(cfg model.AuthConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, cfg.Identity())
}

// InvalidateAll drops every cached token and returns how many were dropped.
func (s *TokenStore) InvalidateAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for _, slot := range s.slots {
		if slot.token != nil {
			dropped++
		}
	}
	s.slots = make(map[string]*tokenSlot)
	return dropped
}

// slot must be called with mu held. New slots get a store wide generation so an
// issuance for a removed slot never shares a flight with its replacement.
func (s *TokenStore) slot(key string) *tokenSlot {
	slot, ok := s.slots[key]
	if !ok {
		s.generation++
		slot = &tokenSlot{generation: s.generation}
		s.slots[key] = slot
	}
	return slot
}

func (s *TokenStore) release(key string, slot *tokenSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot.users--
	if slot.users == 0 && s.slots[key] == slot && (slot.token == nil || !s.now().Before(slot.token.ExpiresAt)) {
		delete(s.slots, key)
	}
}

// pruneExpired must be called with mu held.
func (s *TokenStore) pruneExpired(now time.Time) {
	for key, slot := range s.slots {
		if slot.users == 0 && slot.token != nil && !now.Before(slot.token.ExpiresAt) {
			delete(s.slots, key)
		}
	}
}
