package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAll(t *testing.T) {
	up := HealthCheckerFunc(func(context.Context) bool { return true })
	down := HealthCheckerFunc(func(context.Context) bool { return false })

	ctx := context.Background()
	assert.True(t, All().Healthy(ctx))
	assert.True(t, All(up, up).Healthy(ctx))
	assert.False(t, All(up, down).Healthy(ctx))
}
