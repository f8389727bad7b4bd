package imageresolver

import (
	"context"
	"sync"
)

// SlotState is the lifecycle of one rendered image slot.
type SlotState string

const (
	// SlotOptimistic shows the conventional URL while the store check runs.
	SlotOptimistic SlotState = "optimistic"
	// SlotConfirmed means the store check finished without a better URL.
	SlotConfirmed SlotState = "confirmed"
	// SlotUpgraded means the store check swapped in an override URL.
	SlotUpgraded SlotState = "upgraded"
)

// ImageSlot is the optimistic-then-upgrade rule as a named component: the
// conventional URL is computed synchronously so the first paint never waits,
// then the resolver runs in the background and only swaps the shown URL if it
// found something strictly better. Confirmed and Upgraded are terminal; a
// prop change on the consuming side means a new slot, which is also how a
// failed slot gets its retry.
type ImageSlot struct {
	mu         sync.Mutex
	resolver   *Resolver
	entityType string
	entityID   string
	imageType  string
	current    string
	state      SlotState
	loadFailed bool
}

// NewImageSlot creates a slot showing the conventional URL for the triple.
func NewImageSlot(resolver *Resolver, entityType, entityID, imageType string) *ImageSlot {
	return &ImageSlot{
		resolver:   resolver,
		entityType: entityType,
		entityID:   entityID,
		imageType:  imageType,
		current:    resolver.Conventions().BuildConventionalURL(entityType, entityID, imageType),
		state:      SlotOptimistic,
	}
}

// Current returns the URL the slot is showing right now.
func (s *ImageSlot) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// State returns the slot's lifecycle state.
func (s *ImageSlot) State() SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Resolve runs the store-backed resolution and applies the upgrade rule.
// Context cancellation models unmount: a result arriving after cancel is
// discarded and the slot keeps its current URL and state.
func (s *ImageSlot) Resolve(ctx context.Context) SlotState {
	s.mu.Lock()
	if s.state != SlotOptimistic {
		state := s.state
		s.mu.Unlock()
		return state
	}
	fallback := s.current
	s.mu.Unlock()

	resolved := s.resolver.Resolve(ctx, s.entityType, s.entityID, s.imageType, fallback)

	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil || s.state != SlotOptimistic {
		return s.state
	}

	conventions := s.resolver.Conventions()
	if resolved != "" && !conventions.IsPlaceholder(resolved) && resolved != s.current {
		s.current = resolved
		s.state = SlotUpgraded
		if s.resolver.metrics != nil {
			s.resolver.metrics.IncrementSlotUpgrades()
		}
	} else {
		s.state = SlotConfirmed
	}
	return s.state
}

// ResolveInBackground runs Resolve on its own goroutine.
func (s *ImageSlot) ResolveInBackground(ctx context.Context) {
	go s.Resolve(ctx)
}

// MarkLoadFailed records a browser-level load failure. The slot stays in the
// placeholder state until the consuming side builds a new slot.
func (s *ImageSlot) MarkLoadFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadFailed = true
}

// ShowPlaceholder reports whether the slot must render the placeholder.
func (s *ImageSlot) ShowPlaceholder() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ShowPlaceholder(s.current, s.loadFailed)
}

// ShowPlaceholder is the presentation fallback rule: the placeholder renders
// if and only if the image failed to load or the resolved source is blank.
// A slot still waiting on its background resolution holds a usable
// conventional URL, so loading alone never shows the placeholder.
func ShowPlaceholder(src string, hasError bool) bool {
	return hasError || IsBlankSource(src)
}
