package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gudang/internal/core/apperror"
)

func TestEmptyEngineAllowsEverything(t *testing.T) {
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	assert.NoError(t, engine.Check(context.Background(), Input{Quantity: 1e9}))
}

func TestNilEngineAllowsEverything(t *testing.T) {
	var engine *Engine
	assert.NoError(t, engine.Check(context.Background(), Input{Quantity: 1}))
}

func TestRuleBlocksApproval(t *testing.T) {
	engine, err := NewEngine([]Rule{
		{Name: "max-quantity", Expression: "quantity <= 1000.0"},
	})
	require.NoError(t, err)

	assert.NoError(t, engine.Check(context.Background(), Input{Quantity: 1000}))

	err = engine.Check(context.Background(), Input{Quantity: 1001})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodePolicyViolation, appErr.Code)
	assert.Equal(t, "max-quantity", appErr.Details["rule"])
}

func TestRuleSeesDocumentType(t *testing.T) {
	engine, err := NewEngine([]Rule{
		{Name: "disposal-cap", Expression: "document_type != 'disposal' || quantity <= 100.0"},
	})
	require.NoError(t, err)

	assert.NoError(t, engine.Check(context.Background(), Input{DocumentType: "procurement", Quantity: 500}))
	assert.Error(t, engine.Check(context.Background(), Input{DocumentType: "disposal", Quantity: 500}))
}

func TestCompileErrors(t *testing.T) {
	_, err := NewEngine([]Rule{{Name: "broken", Expression: "quantity +"}})
	assert.Error(t, err)

	_, err = NewEngine([]Rule{{Name: "non-bool", Expression: "quantity + 1.0"}})
	assert.Error(t, err)
}
