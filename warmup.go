package ioc

import (
	"context"
	"sort"
)

// Warmup eagerly materializes every singleton constructor binding, in a
// stable order, so that a composition mistake surfaces at startup instead
// of on the first resolution that needs the type. Instance bindings are
// already materialized and transient bindings are skipped. The first
// failed construction aborts the warmup and is returned.
func (c *Container) Warmup(ctx context.Context) error {
	bindings := c.snapshot()
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].slotType.String() < bindings[j].slotType.String()
	})

	for _, b := range bindings {
		if b.isInstance() || b.lifetime != Singleton {
			continue
		}
		if _, err := c.resolveType(ctx, b.slotType); err != nil {
			return err
		}
	}
	return nil
}
