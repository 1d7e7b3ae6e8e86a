package identifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "omegashop/internal/errors"
)

// memoryProbe mimics a table column with a unique index.
type memoryProbe struct {
	values map[string]struct{}
	err    error
}

func newMemoryProbe(existing ...string) *memoryProbe {
	p := &memoryProbe{values: make(map[string]struct{})}
	for _, v := range existing {
		p.values[v] = struct{}{}
	}
	return p
}

func (p *memoryProbe) exists(_ context.Context, value string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	_, ok := p.values[value]
	return ok, nil
}

func (p *memoryProbe) add(value string) {
	p.values[value] = struct{}{}
}

func newTestGenerator(t *testing.T, domain string, probe *memoryProbe) *Generator {
	t.Helper()
	registry := NewRegistry()
	registry.Register(domain, probe.exists)
	return NewGenerator(registry, zap.NewNop())
}

func TestUniqueSlug_EmptyDomain(t *testing.T) {
	probe := newMemoryProbe()
	gen := newTestGenerator(t, "products.slug", probe)

	slug, err := gen.UniqueSlug(context.Background(), "Red Shoes!! 2024", "products.slug")
	require.NoError(t, err)
	assert.Equal(t, "red-shoes-2024", slug)
}

func TestUniqueSlug_SuffixesOnCollision(t *testing.T) {
	probe := newMemoryProbe()
	gen := newTestGenerator(t, "products.slug", probe)
	ctx := context.Background()

	first, err := gen.UniqueSlug(ctx, "Red Shoes", "products.slug")
	require.NoError(t, err)
	assert.Equal(t, "red-shoes", first)
	probe.add(first)

	second, err := gen.UniqueSlug(ctx, "Red Shoes", "products.slug")
	require.NoError(t, err)
	assert.Equal(t, "red-shoes-1", second)
	probe.add(second)

	third, err := gen.UniqueSlug(ctx, "Red Shoes", "products.slug")
	require.NoError(t, err)
	assert.Equal(t, "red-shoes-2", third)
}

func TestUniqueSlug_UnknownDomain(t *testing.T) {
	gen := NewGenerator(NewRegistry(), zap.NewNop())

	_, err := gen.UniqueSlug(context.Background(), "anything", "nope.slug")
	require.Error(t, err)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestUniqueSlug_EmptySeed(t *testing.T) {
	gen := newTestGenerator(t, "products.slug", newMemoryProbe())

	_, err := gen.UniqueSlug(context.Background(), "???", "products.slug")
	require.Error(t, err)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestUniqueSlug_ProbeFailureAssumesFree(t *testing.T) {
	probe := newMemoryProbe("red-shoes")
	probe.err = errors.New("connection reset")
	gen := newTestGenerator(t, "products.slug", probe)

	slug, err := gen.UniqueSlug(context.Background(), "Red Shoes", "products.slug")
	require.NoError(t, err)
	assert.Equal(t, "red-shoes", slug)
}

func TestUniqueSlug_CanceledContext(t *testing.T) {
	gen := newTestGenerator(t, "products.slug", newMemoryProbe())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.UniqueSlug(ctx, "Red Shoes", "products.slug")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUniqueShortCode_LengthAndAlphabet(t *testing.T) {
	gen := newTestGenerator(t, "products.sku", newMemoryProbe())

	for _, length := range []int{1, 6, 12} {
		code, err := gen.UniqueShortCode(context.Background(), "products.sku", length)
		require.NoError(t, err)
		assert.Len(t, code, length)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(shortCodeAlphabet, r), "unexpected rune %q", r)
		}
	}
}

func TestUniqueShortCode_DefaultLength(t *testing.T) {
	gen := newTestGenerator(t, "products.sku", newMemoryProbe())

	code, err := gen.UniqueShortCode(context.Background(), "products.sku", 0)
	require.NoError(t, err)
	assert.Len(t, code, DefaultShortCodeLength)
}

func TestUniqueShortCode_ResamplesWholeCode(t *testing.T) {
	probe := newMemoryProbe("AAAAAA")
	gen := newTestGenerator(t, "products.sku", probe)

	// First draw collides with the seeded value, second draw is distinct.
	draws := [][]byte{[]byte("AAAAAA"), []byte("BBBBBB")}
	i := 0
	gen.randInt = func(n int) int {
		draw := draws[i/6]
		c := draw[i%6]
		i++
		return strings.IndexByte(shortCodeAlphabet, c)
	}

	code, err := gen.UniqueShortCode(context.Background(), "products.sku", 6)
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", code)
}

func TestUniqueShortCode_NeverReturnsExisting(t *testing.T) {
	probe := newMemoryProbe()
	gen := newTestGenerator(t, "products.sku", probe)
	ctx := context.Background()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := gen.UniqueShortCode(ctx, "products.sku", 2)
		require.NoError(t, err)
		_, dup := seen[code]
		assert.False(t, dup, "code %q issued twice", code)
		seen[code] = struct{}{}
		probe.add(code)
	}
}
