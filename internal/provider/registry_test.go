package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/argos/internal/metadata"
)

type stubProvider struct {
	name string
	rec  metadata.Record
	err  error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(_ context.Context, _ Request) (metadata.Record, error) {
	return s.rec, s.err
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(&stubProvider{name: "b"}, &stubProvider{name: "a"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, reg.Names())

	p, ok := reg.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "a", p.Name())

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(&stubProvider{name: "a"}, &stubProvider{name: "A"})
	assert.Error(t, err)
}

func TestNewRegistryRejectsEmptyName(t *testing.T) {
	_, err := NewRegistry(&stubProvider{name: "  "})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	reg, err := NewRegistry(&stubProvider{name: "a"}, &stubProvider{name: "b"})
	require.NoError(t, err)

	assert.NoError(t, reg.Validate([]string{"a", "b", "A"}))

	err = reg.Validate([]string{"a", "x", "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x, y")
}

func TestInvokeNormalizesFailures(t *testing.T) {
	reg, err := NewRegistry(
		&stubProvider{name: "ok", rec: metadata.Record{Title: "題名"}},
		&stubProvider{name: "broken", err: errors.New("boom")},
	)
	require.NoError(t, err)
	ctx := context.Background()

	res := reg.Invoke(ctx, "ok", Request{Identifier: "ABC-123"})
	assert.True(t, res.Success)
	assert.True(t, res.Usable())

	res = reg.Invoke(ctx, "broken", Request{Identifier: "ABC-123"})
	assert.False(t, res.Success)
	assert.Equal(t, "broken", res.ProviderName)

	res = reg.Invoke(ctx, "unregistered", Request{Identifier: "ABC-123"})
	assert.False(t, res.Success)
}

func TestResultUsableRequiresTitle(t *testing.T) {
	assert.False(t, Result{Success: true}.Usable())
	assert.False(t, Result{Record: metadata.Record{Title: "x"}}.Usable())
	assert.True(t, Result{Success: true, Record: metadata.Record{Title: "x"}}.Usable())
}
