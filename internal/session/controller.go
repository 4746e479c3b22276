// Package session coordinates the identity store and the ledger engine across
// login and logout transitions.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arrotondami/wealth-engine/internal/interfaces"
	"github.com/arrotondami/wealth-engine/internal/ledger"
	"github.com/arrotondami/wealth-engine/internal/models"
	"github.com/arrotondami/wealth-engine/internal/models/events"
)

// Controller is the session state machine: either logged out, or logged in
// with exactly one active user whose ledger is loaded in the engine.
type Controller struct {
	mu       sync.Mutex
	identity interfaces.IdentityStore
	engine   *ledger.Engine
	events   interfaces.EventPublisher // optional
	log      *zap.Logger

	active *models.User
}

func NewController(identity interfaces.IdentityStore, engine *ledger.Engine, publisher interfaces.EventPublisher, log *zap.Logger) *Controller {
	return &Controller{
		identity: identity,
		engine:   engine,
		events:   publisher,
		log:      log,
	}
}

// Resume derives the startup state from the persisted active pointer. When a
// user is present their ledger is loaded; otherwise the controller starts
// logged out. The returned user is nil when logged out.
func (c *Controller) Resume(ctx context.Context) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.identity.ActiveUser()
	if err != nil {
		return nil, fmt.Errorf("reading active user: %w", err)
	}
	if user == nil {
		return nil, nil
	}
	if err := c.engine.Initialize(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("resuming session for %s: %w", user.ID, err)
	}
	c.active = user
	c.log.Info("session resumed", zap.String("user_id", user.ID))
	return user, nil
}

// Login persists user as the active identity, then loads their ledger into
// the engine. Logging in while another session is active fully discards the
// previous user's in-memory state before the new ledger is loaded; nothing
// is ever merged across users.
func (c *Controller) Login(ctx context.Context, user models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if user.ID == "" {
		return &ledger.ValidationError{Field: "user.id", Reason: "must not be empty"}
	}

	if err := c.identity.SetActiveUser(user); err != nil {
		return fmt.Errorf("persisting active user: %w", err)
	}
	if err := c.engine.Initialize(ctx, user.ID); err != nil {
		return fmt.Errorf("loading ledger for %s: %w", user.ID, err)
	}
	c.active = &user

	c.publish(events.TopicSessionStarted, events.SessionStarted{
		UserID:     user.ID,
		OccurredAt: time.Now().UTC(),
	})
	c.log.Info("logged in", zap.String("user_id", user.ID), zap.String("name", user.Name))
	return nil
}

// Logout clears the active pointer and discards in-memory ledger state. The
// user's durable data is retained for the next login. The confirmation
// prompt shown before logging out belongs to the caller, not to this core.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return ledger.ErrNoActiveSession
	}
	userID := c.active.ID

	if err := c.identity.ClearActiveUser(); err != nil {
		return fmt.Errorf("clearing active user: %w", err)
	}
	c.engine.Reset()
	c.active = nil

	c.publish(events.TopicSessionEnded, events.SessionEnded{
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
	c.log.Info("logged out", zap.String("user_id", userID))
	return nil
}

// ActiveUser returns the logged-in user, or nil when logged out.
func (c *Controller) ActiveUser() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	u := *c.active
	return &u
}

// LoggedIn reports whether a session is active.
func (c *Controller) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

func (c *Controller) publish(topic string, event any) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(topic, event); err != nil {
		c.log.Warn("event publish failed", zap.String("topic", topic), zap.Error(err))
	}
}
