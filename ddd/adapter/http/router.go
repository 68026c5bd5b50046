package http

import (
	"github.com/gin-gonic/gin"

	"clipflow-service/ddd/application/app"
	"clipflow-service/pkg/logger"
	"clipflow-service/pkg/manager"
)

func init() {
	// 注册路由插件
	manager.RegisterRoutePlugin(&PipelineRoutePlugin{})
}

// PipelineRoutePlugin 管道运维路由插件
type PipelineRoutePlugin struct{}

func (p *PipelineRoutePlugin) Name() string {
	return "pipelineRoutes"
}

// RegisterRoutes 设置路由；PipelineApp由Worker组件装配后注入
func (p *PipelineRoutePlugin) RegisterRoutes(engine *gin.Engine, deps *manager.Dependencies) {
	pipelineApp, ok := deps.PipelineApp.(app.PipelineApp)
	if !ok || pipelineApp == nil {
		logger.Warnf("Pipeline app not initialized, ops routes skipped")
		return
	}

	controller := NewPipelineController(pipelineApp)

	v1 := engine.Group("/api/v1")
	{
		pipeline := v1.Group("/pipeline")
		{
			// 运行指标、视频状态查询与运维重试
			pipeline.GET("/stats", controller.GetStats)
			pipeline.GET("/videos/:video_id", controller.GetVideoStatus)
			pipeline.POST("/videos/:video_id/retry", controller.RetryVideo)
		}
	}
}
