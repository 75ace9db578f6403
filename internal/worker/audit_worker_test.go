package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lifeline/donor-registry/internal/events"
	"github.com/lifeline/donor-registry/internal/service"
)

func TestStartAuditWorker(t *testing.T) {
	StartAuditWorker(nil)

	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(service.NewAuditService(dispatcher, zap.New(core)))

	require.NoError(t, dispatcher.Publish(context.Background(),
		events.New(events.EventUserRegistered, "u1", "u1", nil)))
	assert.Equal(t, 1, logs.FilterMessage("user_registered").Len())
}
