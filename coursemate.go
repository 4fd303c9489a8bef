// Package coursemate provides a high-level façade over the orchestration
// core and service abstractions (backends, tools, sessions & logging)
// enabling rapid construction of tool-augmented question answering for
// course materials. Most applications interact with this package by:
//  1. Creating a CourseMate via New() with a backend adapter
//  2. Registering tools on a tool.Registry (optional)
//  3. Calling Generate per user query, optionally with a session id for
//     conversational continuity
//
// The façade delegates control flow to orchestrator.Orchestrator while
// keeping setup and usage ergonomics concise. All defaults are safe for
// local development and testing; production deployments typically supply a
// structured logger and their own session store.
package coursemate

import (
	"context"
	"time"

	"github.com/coursemate/coursemate/core"
	"github.com/coursemate/coursemate/logging"
	"github.com/coursemate/coursemate/model"
	"github.com/coursemate/coursemate/orchestrator"
	"github.com/coursemate/coursemate/session"
	"github.com/coursemate/coursemate/tool"
)

// Options configures the CourseMate instance.
type Options struct {
	// Tools holds the registered tool implementations advertised to the
	// backend. Nil disables tool use entirely.
	Tools *tool.Registry

	// SessionStore persists exchange history per session id (defaults to an
	// in-memory implementation).
	SessionStore core.SessionStore

	// MaxRounds bounds backend rounds per query (default 2).
	MaxRounds int

	// SystemPrompt overrides the built-in policy prompt.
	SystemPrompt string

	// ToolParallelism bounds concurrent tool executions within a round.
	ToolParallelism int

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// GenerateOptions carries per-call overrides for Generate.
type GenerateOptions struct {
	// SessionID enables conversational continuity: prior exchanges are
	// summarized into the system prompt and the new exchange is recorded
	// afterwards. Empty means a one-shot query.
	SessionID string

	// History explicitly supplies a prior-conversation summary, bypassing
	// the session store lookup.
	History string

	// MaxRounds overrides the instance-level round budget for this call.
	MaxRounds int
}

// CourseMate is the high-level façade aggregating the orchestrator and services.
type CourseMate struct {
	backend  model.Backend
	opts     Options
	sessions core.SessionStore
}

// New creates a CourseMate around a backend adapter with optional overrides.
// Any unset service is initialized with an in-memory implementation.
func New(backend model.Backend, optFns ...func(o *Options)) *CourseMate {
	opts := Options{
		MaxRounds:    orchestrator.DefaultMaxRounds,
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.SessionStore == nil {
		opts.SessionStore = session.NewInMemoryStore()
	}

	return &CourseMate{backend: backend, opts: opts, sessions: opts.SessionStore}
}

// Generate answers one query. It never fails outward: every internal failure
// is converted into a usable string answer. The only non-nil error ever
// returned is ctx's cancellation error.
func (cm *CourseMate) Generate(ctx context.Context, query string, optFns ...func(o *GenerateOptions)) (string, error) {
	var genOpts GenerateOptions
	for _, fn := range optFns {
		fn(&genOpts)
	}

	history := genOpts.History
	if history == "" && genOpts.SessionID != "" {
		h, err := cm.sessions.History(genOpts.SessionID)
		if err != nil {
			cm.opts.Logger.Warn("coursemate.session.history.error", "session_id", genOpts.SessionID, "error", err.Error())
		} else {
			history = h
		}
	}

	answer, err := cm.orchestratorFor(genOpts).Generate(ctx, query, history)
	if err != nil {
		return "", err
	}

	if genOpts.SessionID != "" {
		ex := core.Exchange{Query: query, Answer: answer, At: time.Now()}
		if err := cm.sessions.AppendExchange(genOpts.SessionID, ex); err != nil {
			cm.opts.Logger.Warn("coursemate.session.append.error", "session_id", genOpts.SessionID, "error", err.Error())
		}
	}

	return answer, nil
}

// orchestratorFor builds the per-call orchestrator applying call overrides.
func (cm *CourseMate) orchestratorFor(genOpts GenerateOptions) *orchestrator.Orchestrator {
	maxRounds := cm.opts.MaxRounds
	if genOpts.MaxRounds > 0 {
		maxRounds = genOpts.MaxRounds
	}

	return orchestrator.New(cm.backend, func(o *orchestrator.Options) {
		if cm.opts.Tools != nil && cm.opts.Tools.Len() > 0 {
			o.Tools = cm.opts.Tools.Definitions()
			o.Executor = cm.opts.Tools
		}
		o.MaxRounds = maxRounds
		o.SystemPrompt = cm.opts.SystemPrompt
		o.ToolParallelism = cm.opts.ToolParallelism
		o.Logger = cm.opts.Logger
	})
}
