package advisor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodsuite/advisor/internal/advisor"
	"github.com/prodsuite/advisor/internal/testutil"
)

func TestNewGenkitInvoker_Validation(t *testing.T) {
	ctx := context.Background()
	g := genkit.Init(ctx)

	_, err := advisor.NewGenkitInvoker(nil, "mock/test-model", 0, 0, nil)
	assert.ErrorIs(t, err, advisor.ErrNotConfigured)

	_, err = advisor.NewGenkitInvoker(g, "  ", 0, 0, nil)
	assert.ErrorIs(t, err, advisor.ErrNotConfigured)
}

func TestGenkitInvoker_Invoke(t *testing.T) {
	ctx := context.Background()
	g := genkit.Init(ctx)

	mock := testutil.NewMockLLM("fallback review")
	mock.AddResponse("login flow", "The login flow lacks rate limiting.")
	mock.SetUsage(120, 45)
	modelName := mock.RegisterModel(g)

	inv, err := advisor.NewGenkitInvoker(g, modelName, 0, 0, testutil.DiscardLogger())
	require.NoError(t, err)

	got, err := inv.Invoke(ctx, "Please review the login flow design.", "You are a reviewer.")
	require.NoError(t, err)

	assert.Equal(t, "The login flow lacks rate limiting.", got.Text)
	assert.Equal(t, 120, got.Usage.InputTokens)
	assert.Equal(t, 45, got.Usage.OutputTokens)
	assert.Equal(t, 165, got.Usage.TotalTokens)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "You are a reviewer.", calls[0].System)
}

func TestGenkitInvoker_UpstreamFailure(t *testing.T) {
	ctx := context.Background()
	g := genkit.Init(ctx)

	mock := testutil.NewMockLLM("unused")
	mock.FailWith(errors.New("provider returned status 500"))
	modelName := mock.RegisterModel(g)

	inv, err := advisor.NewGenkitInvoker(g, modelName, 0, 0, testutil.DiscardLogger())
	require.NoError(t, err)

	_, err = inv.Invoke(ctx, "prompt", "system")
	require.Error(t, err)

	ue, ok := advisor.AsUpstreamError(err)
	require.True(t, ok)
	assert.Contains(t, ue.Message, "500")
	assert.False(t, ue.Timeout)
}

func TestGenkitInvoker_EmptyResponse(t *testing.T) {
	ctx := context.Background()
	g := genkit.Init(ctx)

	mock := testutil.NewMockLLM("   ")
	modelName := mock.RegisterModel(g)

	inv, err := advisor.NewGenkitInvoker(g, modelName, 0, 0, testutil.DiscardLogger())
	require.NoError(t, err)

	_, err = inv.Invoke(ctx, "prompt", "system")
	require.Error(t, err)

	ue, ok := advisor.AsUpstreamError(err)
	require.True(t, ok)
	assert.Contains(t, ue.Message, "empty response")
}
