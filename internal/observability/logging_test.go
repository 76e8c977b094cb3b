package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithProject_StoresValue(t *testing.T) {
	ctx := WithProject(context.Background(), "/work/acme-site")
	require.Equal(t, "/work/acme-site", GetContext(ctx).Project)
}

func TestContextFields_Accumulate(t *testing.T) {
	ctx := context.Background()
	ctx = WithProject(ctx, "/work/acme-site")
	ctx = WithRunID(ctx, "run-123")
	ctx = WithStage(ctx, "checking-manifests")
	ctx = WithValidator(ctx, "image-folders")

	lc := GetContext(ctx)
	require.Equal(t, "/work/acme-site", lc.Project)
	require.Equal(t, "run-123", lc.RunID)
	require.Equal(t, "checking-manifests", lc.Stage)
	require.Equal(t, "image-folders", lc.Validator)
}

func TestContextFields_LaterValueOverwrites(t *testing.T) {
	ctx := WithStage(context.Background(), "checking-state")
	ctx = WithStage(ctx, "checking-images")
	require.Equal(t, "checking-images", GetContext(ctx).Stage)
}

func TestGetContext_EmptyContext(t *testing.T) {
	lc := GetContext(context.Background())
	require.Empty(t, lc.Project)
	require.Empty(t, lc.RunID)
}
