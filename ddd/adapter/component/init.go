package component

import (
	"context"

	"clipflow-service/pkg/manager"
)

func init() {
	// 注册组件插件
	manager.RegisterComponentPlugin(&PipelineWorkerComponentPlugin{})
}

// backgroundTaskAdapter adapts Start/Stop functions to the BackgroundTask interface.
type backgroundTaskAdapter struct {
	name      string
	startFunc func(ctx context.Context) error
	stopFunc  func() error
}

func (b *backgroundTaskAdapter) Name() string                    { return b.name }
func (b *backgroundTaskAdapter) Start(ctx context.Context) error { return b.startFunc(ctx) }
func (b *backgroundTaskAdapter) Stop() error                     { return b.stopFunc() }
