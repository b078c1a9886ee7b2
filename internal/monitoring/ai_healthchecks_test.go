package monitoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeChecker struct {
	healthy  bool
	deadline bool
}

func (f *fakeChecker) HealthCheck(ctx context.Context) bool {
	_, f.deadline = ctx.Deadline()
	return f.healthy
}

func TestCheckAnalyzerHealth(t *testing.T) {
	up := &fakeChecker{healthy: true}
	assert.True(t, CheckAnalyzerHealth(context.Background(), up))
	assert.True(t, up.deadline)

	down := &fakeChecker{}
	assert.False(t, CheckAnalyzerHealth(context.Background(), down))
}
