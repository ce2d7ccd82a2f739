// Package pipeline runs a CRUD action as an ordered chain of stages sharing
// one per-request exchange. A stage advances, settles the exchange with a
// render or redirect, or fails; nothing runs after the exchange is settled.
package pipeline

import "context"

// TerminalKind enumerates the closed set of final pipeline decisions.
type TerminalKind int

const (
	TerminalRender TerminalKind = iota + 1
	TerminalRedirect
	TerminalFail
)

// FailKind classifies a failed exchange for the presentation layer. The core
// never picks an HTTP status; it only names the kind of failure.
type FailKind string

const (
	FailNotFound    FailKind = "not_found"
	FailValidation  FailKind = "validation_failed"
	FailLookup      FailKind = "lookup_failed"
	FailPersistence FailKind = "persistence_failed"
)

// Terminal is the final decision of a pipeline: render a view, redirect to a
// path, or report a failure.
type Terminal struct {
	Kind TerminalKind

	View string
	Data any

	Path string

	FailKind FailKind
	Err      error
}

// Exchange carries one request through its pipeline. It is scoped to that
// single request and never shared.
type Exchange struct {
	Entity string            // entity kind, e.g. "subscriber"
	Action string            // crud action name
	ID     string            // raw record identifier from the route, if any
	Input  map[string]string // raw inbound payload fields

	Record     any
	Collection any

	redirect string
	terminal *Terminal
}

func NewExchange(entity, action, id string, input map[string]string) *Exchange {
	return &Exchange{Entity: entity, Action: action, ID: id, Input: input}
}

// Render settles the exchange with a view instruction.
func (ex *Exchange) Render(view string, data any) {
	ex.terminal = &Terminal{Kind: TerminalRender, View: view, Data: data}
}

// SetRedirect records the redirect target a later RedirectView stage will issue.
func (ex *Exchange) SetRedirect(path string) {
	ex.redirect = path
}

// Fail settles the exchange with a classified failure.
func (ex *Exchange) Fail(kind FailKind, err error) {
	ex.terminal = &Terminal{Kind: TerminalFail, FailKind: kind, Err: err}
}

// Settled reports whether a terminal decision has been made.
func (ex *Exchange) Settled() bool {
	return ex.terminal != nil
}

// Terminal returns the final decision, or nil if the pipeline never settled.
func (ex *Exchange) Terminal() *Terminal {
	return ex.terminal
}

// Stage is one unit of request handling: it mutates the exchange and returns
// nil to advance, settles the exchange, or returns an error.
type Stage func(ctx context.Context, ex *Exchange) error

// ErrorStage is the single shared failure reporter a stage error routes to.
type ErrorStage func(ctx context.Context, ex *Exchange, err error)

// Run executes stages strictly in order. A settled exchange stops the chain;
// a stage error skips every remaining stage and goes to onError instead.
func Run(ctx context.Context, ex *Exchange, onError ErrorStage, stages ...Stage) {
	for _, stage := range stages {
		if ex.Settled() {
			return
		}
		if err := stage(ctx, ex); err != nil {
			onError(ctx, ex, err)
			return
		}
	}
}

// RedirectView issues the redirect requested earlier in the pipeline. When no
// target was set it falls through to the next stage instead of redirecting
// somewhere undefined.
func RedirectView(_ context.Context, ex *Exchange) error {
	if ex.redirect != "" {
		ex.terminal = &Terminal{Kind: TerminalRedirect, Path: ex.redirect}
	}
	return nil
}
