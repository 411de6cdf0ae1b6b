// Package orchestrator owns the cross-turn state the decision engine needs
// threaded through it, and serializes turns per conversation.
//
// The engine is a pure function; everything stateful lives here:
//   - the per-conversation State value, swapped after every turn
//   - per-conversation locking (no two Decide calls for one conversation
//     may run concurrently; different conversations run in parallel)
//   - metrics, tracing, and logging around Decide calls
//   - idle-conversation expiry
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/voxhall-labs/voicecore/decisioncore/contract"
	"github.com/voxhall-labs/voicecore/decisioncore/engine"
	"github.com/voxhall-labs/voicecore/decisioncore/observability"
	"github.com/voxhall-labs/voicecore/decisioncore/state"
	"github.com/voxhall-labs/voicecore/decisioncore/turn"
)

const tracerName = "voicecore/orchestrator"

// conversation tracks one conversation's cross-turn state. The mutex
// serializes turns: each Decide call consumes and replaces the single
// shared State value.
type conversation struct {
	mu             sync.Mutex
	state          state.State
	turns          int
	lastActivityAt time.Time
}

// Orchestrator invokes the decision engine once per turn and stores the
// returned cross-turn state between turns.
type Orchestrator struct {
	engine *engine.Engine
	logger observability.Logger

	conversations map[string]*conversation
	mu            sync.RWMutex
}

// New creates an Orchestrator around the given engine.
func New(eng *engine.Engine, logger observability.Logger) *Orchestrator {
	return &Orchestrator{
		engine:        eng,
		logger:        logger,
		conversations: make(map[string]*conversation),
	}
}

// NewTurnID mints a turn id for callers that do not supply their own.
func NewTurnID() string {
	return "turn_" + uuid.New().String()[:16]
}

// RunTurn decides one turn for the conversation identified by the request's
// correlation id, swapping in the returned state on success. Contract
// violations leave the stored state untouched.
func (o *Orchestrator) RunTurn(ctx context.Context, req *turn.Request) (*turn.Response, error) {
	conv := o.conversation(req.CorrelationID)

	conv.mu.Lock()
	defer conv.mu.Unlock()

	_, span := otel.Tracer(tracerName).Start(ctx, "decide")
	span.SetAttributes(
		attribute.String("conversation.id", req.CorrelationID),
		attribute.String("turn.id", req.TurnID),
		attribute.String("session.state", string(req.Session)),
	)
	defer span.End()

	started := time.Now()
	resp, err := o.engine.Decide(req, conv.state)
	elapsed := time.Since(started)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "contract violation")
		observability.RecordContractViolation(contract.Code(err))
		if o.logger != nil {
			o.logger.Warn("turn_rejected",
				"conversation_id", req.CorrelationID,
				"turn_id", req.TurnID,
				"code", contract.Code(err),
			)
		}
		return nil, err
	}

	prevPending := conv.state.PendingKindString()
	conv.state = resp.Next
	conv.turns++
	conv.lastActivityAt = req.Now

	span.SetAttributes(
		attribute.String("directive.kind", string(resp.Directive.Kind)),
		attribute.String("reason", string(resp.Reason)),
	)
	observability.RecordDecision(string(resp.Directive.Kind), string(resp.Reason), elapsed)
	if resp.CancelSpeech {
		observability.RecordSpeechCancel()
	}
	if resp.Next.Pending != nil && prevPending != string(resp.Next.Pending.Kind) {
		observability.RecordPendingInteraction(string(resp.Next.Pending.Kind))
	}

	if o.logger != nil {
		o.logger.Info("turn_decided",
			"conversation_id", req.CorrelationID,
			"turn_id", req.TurnID,
			"directive", string(resp.Directive.Kind),
			"reason", string(resp.Reason),
			"pending", resp.Next.PendingKindString(),
			"duration_ms", elapsed.Milliseconds(),
		)
	}
	return resp, nil
}

// State returns a copy of the stored state for a conversation.
func (o *Orchestrator) State(conversationID string) (state.State, bool) {
	o.mu.RLock()
	conv, ok := o.conversations[conversationID]
	o.mu.RUnlock()
	if !ok {
		return state.State{}, false
	}
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return conv.state.Clone(), true
}

// conversation returns the tracked conversation, creating it on first use.
func (o *Orchestrator) conversation(id string) *conversation {
	o.mu.RLock()
	conv, ok := o.conversations[id]
	o.mu.RUnlock()
	if ok {
		return conv
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if conv, ok = o.conversations[id]; ok {
		return conv
	}
	conv = &conversation{}
	o.conversations[id] = conv
	observability.SetActiveConversations(len(o.conversations))
	if o.logger != nil {
		o.logger.Debug("conversation_created", "conversation_id", id)
	}
	return conv
}

// ExpireIdle drops conversations with no activity since the cutoff.
// Returns the number of conversations removed.
func (o *Orchestrator) ExpireIdle(now time.Time, idleFor time.Duration) int {
	cutoff := now.Add(-idleFor)

	o.mu.Lock()
	defer o.mu.Unlock()

	count := 0
	for id, conv := range o.conversations {
		conv.mu.Lock()
		idle := !conv.lastActivityAt.After(cutoff)
		conv.mu.Unlock()
		if idle {
			delete(o.conversations, id)
			count++
		}
	}
	observability.SetActiveConversations(len(o.conversations))

	if o.logger != nil && count > 0 {
		o.logger.Info("conversations_expired", "count", count)
	}
	return count
}

// Stats returns conversation counts for introspection.
func (o *Orchestrator) Stats() map[string]int {
	o.mu.RLock()
	defer o.mu.RUnlock()

	stats := map[string]int{
		"conversations": len(o.conversations),
		"pending":       0,
	}
	for _, conv := range o.conversations {
		conv.mu.Lock()
		if conv.state.Pending != nil {
			stats["pending"]++
		}
		conv.mu.Unlock()
	}
	return stats
}
