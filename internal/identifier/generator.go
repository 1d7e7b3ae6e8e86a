package identifier

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	apperrors "omegashop/internal/errors"
)

const shortCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultShortCodeLength matches the six-character codes issued by the shop.
const DefaultShortCodeLength = 6

// ExistsFunc reports whether value is already persisted in the domain the
// probe was registered for.
type ExistsFunc func(ctx context.Context, value string) (bool, error)

// Registry maps a uniqueness domain ("products.slug", "vendors.slug", ...) to
// the existence probe supplied by the owning repository. Registration happens
// at wiring time; lookups afterward are read-only, so the lock only guards
// against racy registration in tests.
type Registry struct {
	mu     sync.RWMutex
	probes map[string]ExistsFunc
}

func NewRegistry() *Registry {
	return &Registry{probes: make(map[string]ExistsFunc)}
}

func (r *Registry) Register(domain string, probe ExistsFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.probes[domain] = probe
}

func (r *Registry) probe(domain string) (ExistsFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	probe, ok := r.probes[domain]
	return probe, ok
}

type Generator struct {
	registry *Registry
	logger   *zap.Logger
	randInt  func(n int) int
}

func NewGenerator(registry *Registry, logger *zap.Logger) *Generator {
	return &Generator{
		registry: registry,
		logger:   logger,
		randInt:  rand.Intn,
	}
}

// UniqueSlug slugifies seed and probes the domain until a free value is
// found, resolving collisions with an incrementing numeric suffix: "x",
// "x-1", "x-2", ... The probe-then-use step is not atomic with the caller's
// insert; the storage layer's unique index is the backstop and a duplicate
// insert surfaces as a conflict to the caller.
func (g *Generator) UniqueSlug(ctx context.Context, seed, domain string) (string, error) {
	probe, ok := g.registry.probe(domain)
	if !ok {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown uniqueness domain %q", domain))
	}

	base := Slugify(seed)
	if base == "" {
		return "", apperrors.NewValidationError("seed text produces an empty slug")
	}

	candidate := base
	for counter := 1; ; counter++ {
		taken, err := g.exists(ctx, probe, domain, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

// UniqueShortCode draws length characters uniformly from [A-Za-z0-9] and
// redraws the whole code on collision. Unlike slugs, codes are resampled, not
// suffixed.
func (g *Generator) UniqueShortCode(ctx context.Context, domain string, length int) (string, error) {
	probe, ok := g.registry.probe(domain)
	if !ok {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown uniqueness domain %q", domain))
	}
	if length <= 0 {
		length = DefaultShortCodeLength
	}

	for {
		code := g.shortCode(length)
		taken, err := g.exists(ctx, probe, domain, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}

func (g *Generator) shortCode(length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = shortCodeAlphabet[g.randInt(len(shortCodeAlphabet))]
	}
	return string(buf)
}

// A failing probe is treated as "not colliding": losing uniqueness to a
// transient store error is preferred over refusing to generate at all. The
// unique index still rejects an actual duplicate.
func (g *Generator) exists(ctx context.Context, probe ExistsFunc, domain, value string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	taken, err := probe(ctx, value)
	if err != nil {
		g.logger.Warn("existence probe failed, assuming value is free",
			zap.String("domain", domain), zap.String("value", value), zap.Error(err))
		return false, nil
	}
	return taken, nil
}
