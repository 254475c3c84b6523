package mcp

import (
	"context"
	"fmt"
	"time"

	sharedErrors "firebase-mcp/internal/shared/errors"
	"firebase-mcp/internal/shared/logger"
	"firebase-mcp/internal/shared/utils"

	"go.uber.org/zap"
)

// Dispatcher routes invocations to catalog handlers.
type Dispatcher struct {
	catalog *Catalog
	rule    *AccessRule
	metrics *Metrics
	logger  logger.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAccessRule installs a rule checked before every invocation.
func WithAccessRule(rule *AccessRule) DispatcherOption {
	return func(d *Dispatcher) { d.rule = rule }
}

// WithMetrics records every invocation in m.
func WithMetrics(m *Metrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher creates a dispatcher over catalog.
func NewDispatcher(catalog *Catalog, log logger.Logger, opts ...DispatcherOption) *Dispatcher {
	if log == nil {
		log = logger.NewNopLogger()
	}
	d := &Dispatcher{
		catalog: catalog,
		logger:  log.WithComponent("mcp-dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Tools returns the catalog in order.
func (d *Dispatcher) Tools() []ToolDefinition {
	return d.catalog.Tools()
}

// Lookup returns the catalog entry for name.
func (d *Dispatcher) Lookup(name string) (ToolDefinition, bool) {
	return d.catalog.Lookup(name)
}

// Invoke runs the named tool. Unknown names fail with a *ProtocolError
// matching ErrMethodNotFound; every other failure is an error-flagged Result.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args Arguments) (res *Result, err error) {
	def, ok := d.catalog.Lookup(name)
	if !ok {
		d.metrics.observe(unknownToolLabel, outcomeNotFound, 0)
		d.logger.WithContext(ctx).Warn("Unknown tool requested", zap.String("tool", name))
		return nil, methodNotFound(name)
	}

	if _, idErr := utils.GetRequestIDFromContext(ctx); idErr != nil {
		ctx = utils.WithRequestID(ctx, "")
	}
	ctx = utils.WithToolName(ctx, name)
	log := d.logger.WithContext(ctx)
	start := time.Now()
	outcome := outcomeSuccess

	defer func() {
		if r := recover(); r != nil {
			log.Error("Tool handler panicked", zap.Any("panic", r))
			res = ErrorResult(sharedErrors.NewInternalError(fmt.Sprintf("Internal error in %s: %v", name, r)))
			err = nil
			outcome = outcomeError
		}
		d.metrics.observe(name, outcome, time.Since(start))
	}()

	if args == nil {
		args = Arguments{}
	}

	allowed, ruleErr := d.rule.Allow(ctx, name, def.ReadOnly, args)
	if ruleErr != nil {
		log.Error("Access rule evaluation failed", zap.Error(ruleErr))
		outcome = outcomeError
		return ErrorResult(sharedErrors.NewInternalError("Error evaluating access rule").WithCause(ruleErr)), nil
	}
	if !allowed {
		log.Warn("Tool denied by access rule", zap.String("rule", d.rule.Expression()))
		outcome = outcomeDenied
		return ErrorResult(deniedError(name)), nil
	}

	log.Debug("Invoking tool")
	res, err = def.Handler(ctx, args)
	if err != nil {
		outcome = classifyFailure(log, err)
		return ErrorResult(err), nil
	}
	return res, nil
}

func deniedError(name string) error {
	return sharedErrors.NewAuthorizationError(
		fmt.Sprintf("Access denied: tool %s is not permitted by the access rule", name))
}

// classifyFailure logs err at a level matching its kind and returns the
// metrics outcome.
func classifyFailure(log logger.Logger, err error) string {
	switch {
	case sharedErrors.IsBackend(err):
		log.Error("Tool failed", zap.Error(err))
		return outcomeError
	case sharedErrors.IsNotInitialized(err):
		log.Warn("Tool called without backend", zap.Error(err))
		return outcomeError
	case sharedErrors.IsAuthorization(err):
		log.Warn("Tool refused caller", zap.Error(err))
		return outcomeDenied
	case sharedErrors.IsValidation(err):
		log.Info("Tool rejected arguments", zap.Error(err))
		return outcomeInvalid
	case sharedErrors.IsNotFound(err), sharedErrors.IsEmptyResult(err):
		log.Debug("Tool found nothing", zap.Error(err))
		return outcomeNotFound
	default:
		log.Error("Tool returned unexpected error", zap.Error(err))
		return outcomeError
	}
}
