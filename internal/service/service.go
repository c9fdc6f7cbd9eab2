// Package service wires the translation pipeline: normalize and validate
// the text, resolve it to an Intent, compile the Intent to a statement,
// run the statement, and shape the envelope. It is the only inbound
// surface; HTTP and CLI both call it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tabletalk/tabletalk/internal/dispatch"
	"github.com/tabletalk/tabletalk/internal/intentsql"
	"github.com/tabletalk/tabletalk/internal/resolve"
	"github.com/tabletalk/tabletalk/internal/schema"
	"github.com/tabletalk/tabletalk/internal/store"
)

// Service owns the compiled dataset contract and the pipeline stages.
type Service struct {
	reg        *schema.Registry
	resolver   *resolve.Resolver
	dispatcher *dispatch.Dispatcher
	log        *slog.Logger
}

// New builds a Service over an open store. A nil logger silences
// pipeline logging.
func New(reg *schema.Registry, st *store.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		reg:        reg,
		resolver:   resolve.New(reg),
		dispatcher: dispatch.New(st, log),
		log:        log,
	}
}

// Compiled is the translate-only result: the statement plus the SQL text
// it would run, for callers that want to inspect without executing.
type Compiled struct {
	Statement *intentsql.Statement
	Aggregate bool
	Label     string
}

// Compile translates text to a parameterized statement without touching
// the database. Resolution rejections come back as errors; callers map
// them to envelopes or exit codes as their surface requires.
func (s *Service) Compile(text string) (*Compiled, error) {
	in, err := s.resolver.Resolve(text)
	if err != nil {
		return nil, err
	}
	stmt, err := intentsql.Compile(in)
	if err != nil {
		return nil, fmt.Errorf("compile intent: %w", err)
	}
	s.log.Debug("compiled query", "sql", stmt.Text, "params", len(stmt.Params))
	return &Compiled{
		Statement: stmt,
		Aggregate: in.Aggregate,
		Label:     in.AggregateLabel,
	}, nil
}

// TranslateAndRun is the whole pipeline for one request. It never
// returns an error: every outcome, rejection included, is an envelope.
func (s *Service) TranslateAndRun(ctx context.Context, text string) dispatch.Envelope {
	in, err := s.resolver.Resolve(text)
	if err != nil {
		return s.rejectEnvelope(text, err)
	}

	stmt, err := intentsql.Compile(in)
	if err != nil {
		s.log.Error("intent compilation failed", "error", err)
		return dispatch.ErrorEnvelope(text, fmt.Sprintf("Error compiling query: %v", err), nil)
	}

	result := s.dispatcher.Execute(ctx, in, stmt)
	return dispatch.Shape(text, stmt.Text, result)
}

// rejectEnvelope maps resolution errors to error envelopes. Rejections
// carry the contract's example suggestions so the caller can show the
// user what this dataset can answer.
func (s *Service) rejectEnvelope(text string, err error) dispatch.Envelope {
	var reject *resolve.RejectError
	if errors.As(err, &reject) {
		return dispatch.ErrorEnvelope(text, reject.Message, reject.Suggestions)
	}

	var unresolved *resolve.UnresolvedFieldError
	if errors.As(err, &unresolved) {
		return dispatch.ErrorEnvelope(text,
			fmt.Sprintf("Unknown field: %s", unresolved.Field),
			s.reg.Suggestions)
	}

	s.log.Error("resolution failed", "error", err)
	return dispatch.ErrorEnvelope(text, err.Error(), s.reg.Suggestions)
}
