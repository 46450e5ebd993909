package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func retryEscalateDef(maxRetries int) *Definition {
	return &Definition{
		ID: "retry-escalate",
		Nodes: map[string]Node{
			"start":     {ID: "start", Type: NodeStart},
			"review":    {ID: "review", Type: NodeTask, MaxRetries: maxRetries},
			"escalated": {ID: "escalated", Type: NodeEnd, Result: ResultFailure, Escalation: EscalationHITL},
			"done":      {ID: "done", Type: NodeEnd, Result: ResultSuccess},
		},
		Edges: []Edge{
			{From: "start", To: "review"},
			{From: "review", To: "review", On: "failed"},
			{From: "review", To: "escalated", On: "failed"},
			{From: "review", To: "done", On: "passed"},
		},
	}
}

func TestEvaluateTransition_EmptyResultTakesUnconditionalEdge(t *testing.T) {
	def := linearDef()
	d := EvaluateTransition(def, "start", "", 0)
	assert.Equal(t, "work", d.Next)
	assert.Equal(t, ActionUnconditional, d.Action)
	assert.Empty(t, d.Err)
}

func TestEvaluateTransition_MatchingEdgeWins(t *testing.T) {
	def := linearDef()
	d := EvaluateTransition(def, "work", "passed", 0)
	assert.Equal(t, "done", d.Next)
	assert.Equal(t, ActionConditional, d.Action)
	assert.True(t, d.ResetRetries)
}

func TestEvaluateTransition_NoMatchingEdgeReturnsError(t *testing.T) {
	def := linearDef()
	d := EvaluateTransition(def, "work", "failed", 0)
	assert.Equal(t, CodeNoMatchingEdge, d.Err)
}

func TestEvaluateTransition_NoOutgoingEdgesReturnsError(t *testing.T) {
	def := linearDef()
	d := EvaluateTransition(def, "done", "passed", 0)
	assert.Equal(t, CodeNoOutgoingEdges, d.Err)
}

func TestEvaluateTransition_RetriesBeforeEscalating(t *testing.T) {
	def := retryEscalateDef(2)

	d := EvaluateTransition(def, "review", "failed", 0)
	assert.Equal(t, "review", d.Next)
	assert.Equal(t, ActionRetry, d.Action)
	assert.Equal(t, 1, d.NewRetryCount)
	assert.False(t, d.ResetRetries)

	d = EvaluateTransition(def, "review", "failed", 1)
	assert.Equal(t, "review", d.Next)
	assert.Equal(t, ActionRetry, d.Action)
	assert.Equal(t, 2, d.NewRetryCount)
}

func TestEvaluateTransition_EscalatesOnceRetriesExhausted(t *testing.T) {
	def := retryEscalateDef(2)

	d := EvaluateTransition(def, "review", "failed", 2)
	assert.Equal(t, "escalated", d.Next)
	assert.Equal(t, ActionEscalate, d.Action)
	assert.True(t, d.ResetRetries)
}

func TestEvaluateTransition_ZeroMaxRetriesEscalatesImmediately(t *testing.T) {
	def := retryEscalateDef(0)

	d := EvaluateTransition(def, "review", "failed", 0)
	assert.Equal(t, "escalated", d.Next)
	assert.Equal(t, ActionEscalate, d.Action)
}

func TestEvaluateTransition_PassedResultDuringRetryWindowTakesConditionalEdge(t *testing.T) {
	def := retryEscalateDef(2)

	d := EvaluateTransition(def, "review", "passed", 1)
	assert.Equal(t, "done", d.Next)
	assert.Equal(t, ActionConditional, d.Action)
	assert.True(t, d.ResetRetries)
}

func TestOutgoingEdges_PreservesDeclarationOrder(t *testing.T) {
	def := retryEscalateDef(2)
	edges := OutgoingEdges(def, "review")
	assert.Len(t, edges, 3)
	assert.Equal(t, "review", edges[0].To)
	assert.Equal(t, "escalated", edges[1].To)
	assert.Equal(t, "done", edges[2].To)
}
