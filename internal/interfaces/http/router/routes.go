// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/guygrubbs/dap-deploy-sub000/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	reportHandler *handler.ReportHandler,
) {
	// 报告管理
	reports := v1.Group("/reports")
	{
		reports.POST("", reportHandler.CreateReport)
		reports.GET("", reportHandler.ListReports)
		reports.GET("/:id", reportHandler.GetReport)
		reports.GET("/:id/status", reportHandler.GetStatus)
		reports.GET("/:id/content", reportHandler.GetContent)
		reports.GET("/:id/pdf-url", reportHandler.GetPDFURL)
		reports.POST("/:id/approve", reportHandler.ApproveReport)
	}
}
