package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"github.com/twinbridge/twinbridge/core/logger"
	"github.com/twinbridge/twinbridge/core/schema"
	"github.com/twinbridge/twinbridge/notify"
	"github.com/twinbridge/twinbridge/storage"
	"github.com/twinbridge/twinbridge/twin"
)

// Gateway bridges the twin engine's asynchronous push callbacks to a
// synchronous HTTP resource API. The engine pushes state snapshots and
// event notifications in; HTTP clients pull from the gateway's own state,
// submit actions, and run historical queries.
type Gateway struct {
	config    *Config
	instance  *twin.Instance
	actions   twin.ActionSubmitter
	storage   storage.Executor
	notifier  notify.Publisher
	validator *schema.Validator
	router    *mux.Router

	store         *snapshotStore
	notifications *notificationLog

	lifecycle lifecycle
}

type lifecycle struct {
	mu      sync.Mutex
	server  *http.Server
	addr    string
	started bool
}

// Builder is a builder helper for the Gateway
type Builder struct {
	// Config carries the adapter id, the bind address and the resource
	// filters. This is mandatory.
	Config *Config
	// Instance describes the twin served at /instance. This is mandatory.
	Instance *twin.Instance
	// Actions receives forwarded action requests. This is optional; without
	// it every action request is rejected.
	Actions twin.ActionSubmitter
	// Storage executes historical queries for the /storage routes. This is
	// optional.
	Storage storage.Executor
	// Notifier receives a copy of every accepted event notification. This is
	// optional.
	Notifier notify.Publisher
	// Validator validates action payloads against their declared schema.
	// This is optional.
	Validator *schema.Validator
	// Router is a mux router the gateway adds its routes to. This is
	// optional; without it the gateway creates its own.
	Router *mux.Router
}

// New realizes the actual gateway and adds its routes to the router.
func New(b *Builder) *Gateway {

	if b.Config == nil {
		panic("Config is missing")
	}
	if b.Instance == nil {
		panic("Instance is missing")
	}

	router := b.Router
	if router == nil {
		router = mux.NewRouter()
	}

	g := &Gateway{
		config:        b.Config,
		instance:      b.Instance,
		actions:       b.Actions,
		storage:       b.Storage,
		notifier:      b.Notifier,
		validator:     b.Validator,
		router:        router,
		store:         newSnapshotStore(),
		notifications: &notificationLog{},
	}
	logger.AddRequestID(router)
	g.handleRoutes(router)
	return g
}

// Router returns the router the gateway's routes are registered on.
func (g *Gateway) Router() *mux.Router {
	return g.router
}

// OnStateUpdate is the push callback the engine invokes once per state
// recomputation. It installs newState as the current snapshot; the store
// derives previous from the published sequence itself so that readers
// cannot observe a torn snapshot/change-set combination. The previous
// argument is part of the engine contract and only used for debug logging.
func (g *Gateway) OnStateUpdate(newState, previous *twin.Snapshot, changes []twin.Change) {
	logger.Default().Debugln("state update received, changes:", len(changes))
	g.store.publish(g.filterSnapshot(newState), g.filterChanges(changes))
}

// OnSync is the push callback the engine invokes when the twin binds to an
// already computed state. It installs the snapshot as current without a
// previous snapshot or change set.
func (g *Gateway) OnSync(current *twin.Snapshot) {
	if current == nil {
		return
	}
	logger.Default().Debugln("state sync received")
	g.store.sync(g.filterSnapshot(current))
}

// OnEventNotification is the push callback the engine invokes once per
// event firing. Notifications of events outside the event whitelist are
// dropped at this boundary.
func (g *Gateway) OnEventNotification(notification twin.EventNotification) {
	if !g.config.Included(twin.ComponentEvent, notification.Key) {
		return
	}
	g.notifications.append(notification)
	if g.notifier != nil {
		// fan-out must not block the engine's computation thread
		go func() {
			if err := g.notifier.PublishNotification(context.Background(), notification); err != nil {
				logger.Default().WithError(err).Errorln("publish notification:", notification.Key)
			}
		}()
	}
}

// filterSnapshot applies the configured whitelists at the twin-facing
// boundary. Read handlers always serve whatever the store holds.
func (g *Gateway) filterSnapshot(snapshot *twin.Snapshot) *twin.Snapshot {
	if snapshot == nil {
		return nil
	}
	if g.config.Unrestricted() {
		return snapshot
	}
	var properties []twin.Property
	for _, p := range snapshot.Properties() {
		if g.config.Included(twin.ComponentProperty, p.Key) {
			properties = append(properties, p)
		}
	}
	var actions []twin.Action
	for _, a := range snapshot.Actions() {
		if g.config.Included(twin.ComponentAction, a.Key) {
			actions = append(actions, a)
		}
	}
	var events []twin.Event
	for _, e := range snapshot.Events() {
		if g.config.Included(twin.ComponentEvent, e.Key) {
			events = append(events, e)
		}
	}
	var relationships []twin.Relationship
	for _, r := range snapshot.Relationships() {
		if g.config.Included(twin.ComponentRelationship, r.Name) {
			relationships = append(relationships, r)
		}
	}
	return twin.NewSnapshot(snapshot.EvaluatedAt(), properties, actions, events, relationships)
}

func (g *Gateway) filterChanges(changes []twin.Change) []twin.Change {
	if g.config.Unrestricted() {
		return changes
	}
	filtered := []twin.Change{}
	for _, change := range changes {
		if g.config.Included(change.Kind.Component(), change.Key) {
			filtered = append(filtered, change)
		}
	}
	return filtered
}

// Start binds the configured host and port and begins serving. Starting is
// a one-shot operation: a second call returns an error, also after Stop.
func (g *Gateway) Start() error {
	g.lifecycle.mu.Lock()
	defer g.lifecycle.mu.Unlock()
	if g.lifecycle.started {
		return errors.New("gateway already started")
	}
	addr := net.JoinHostPort(g.config.Host, strconv.Itoa(g.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	g.lifecycle.server = &http.Server{Handler: g.router}
	g.lifecycle.addr = listener.Addr().String()
	g.lifecycle.started = true
	go func(server *http.Server) {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Default().WithError(err).Errorln("gateway server stopped")
		}
	}(g.lifecycle.server)
	logger.Default().Infoln("gateway", g.config.ID, "listening on", listener.Addr().String())
	return nil
}

// Addr returns the bound listen address, or the empty string when the
// gateway is not running.
func (g *Gateway) Addr() string {
	g.lifecycle.mu.Lock()
	defer g.lifecycle.mu.Unlock()
	if g.lifecycle.server == nil {
		return ""
	}
	return g.lifecycle.addr
}

// Stop unbinds the listener. It is idempotent and safe to call on a
// gateway that was never started.
func (g *Gateway) Stop(ctx context.Context) error {
	g.lifecycle.mu.Lock()
	defer g.lifecycle.mu.Unlock()
	if g.lifecycle.server == nil {
		return nil
	}
	err := g.lifecycle.server.Shutdown(ctx)
	g.lifecycle.server = nil
	return err
}
