// Package actions maps interactive button presses to HOLMES's responses.
//
// A Registry is assembled once at startup with a Builder and is read-only
// afterwards, so the dispatcher can share it between goroutines without
// locking. Handlers are pure: they turn an Invocation into Replies and leave
// the Slack I/O to the caller.
package actions

import (
	"fmt"
	"maps"

	"holmes/internal/config"
	"holmes/internal/render"
)

// Handler handles one or more action kinds.
type Handler interface {
	Description() string
	Kinds() []Kind
	Handle(inv Invocation) ([]Reply, error)
}

// Builder collects handler registrations.
type Builder struct {
	handlers map[Kind]Handler
}

func NewBuilder() *Builder {
	return &Builder{handlers: make(map[Kind]Handler)}
}

// Register associates every kind with h. Registering a kind again replaces
// the earlier handler.
func (b *Builder) Register(kinds []Kind, h Handler) *Builder {
	for _, k := range kinds {
		if k.Known() {
			b.handlers[k] = h
		}
	}
	return b
}

// Add registers h for the kinds it declares.
func (b *Builder) Add(h Handler) *Builder {
	return b.Register(h.Kinds(), h)
}

// Build snapshots the registrations into an immutable Registry.
func (b *Builder) Build() *Registry {
	return &Registry{handlers: maps.Clone(b.handlers)}
}

// Registry resolves action identifiers to handlers.
type Registry struct {
	handlers map[Kind]Handler
}

// Lookup resolves id. Identifiers outside the Kind enumeration return
// ErrUnrecognizedAction; known kinds nobody registered return ErrNoHandler.
func (r *Registry) Lookup(id string) (Handler, Kind, error) {
	k := ParseKind(id)
	if !k.Known() {
		return nil, KindUnknown, fmt.Errorf("%w: %q", ErrUnrecognizedAction, id)
	}
	h, ok := r.handlers[k]
	if !ok {
		return nil, k, fmt.Errorf("%w: %s", ErrNoHandler, k)
	}
	return h, k, nil
}

// List returns identifier -> handler description for every registered kind.
func (r *Registry) List() map[string]string {
	out := make(map[string]string, len(r.handlers))
	for k, h := range r.handlers {
		out[k.ID()] = h.Description()
	}
	return out
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	return len(r.handlers)
}

// Default registers the full HOLMES decision tree.
func Default(r *render.Renderer, dir *config.Directory) *Registry {
	return NewBuilder().
		Add(NewRevenueHandler(r)).
		Add(NewTrafficHandler(r, dir)).
		Add(NewErrorRateHandler(r)).
		Add(NewLatencyHandler(r)).
		Add(NewDiscrepancyHandler(r)).
		Add(NewGeneralHandler(r)).
		Add(NewOverspendHandler(r, dir)).
		Add(NewSROHandler(r)).
		Build()
}
