package basil

import (
	"context"
	"fmt"
)

// AnalyticsService reports aggregate usage.
type AnalyticsService struct {
	c *Client
}

// Usage returns totals over live collections and completed queries.
func (s *AnalyticsService) Usage(ctx context.Context) (_ Usage, err error) {
	defer s.c.obs.track("analytics.usage")(&err)

	rep, err := s.c.usageSvc.GetUsage(s.c.ctx(ctx))
	if err != nil {
		return Usage{}, fmt.Errorf("get usage: %w", err)
	}
	return fromInternalUsage(rep), nil
}
