package handler

import (
	"github.com/Fusion-Mind-co/worklog-system/internal/service"
	"github.com/Fusion-Mind-co/worklog-system/internal/sse"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Worklog  *WorklogHandler
	Taxonomy *TaxonomyHandler
	Export   *ExportHandler
	SSE      *SSEHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, hub *sse.Hub) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(svc.Auth, svc.User),
		User:     NewUserHandler(svc.User),
		Worklog:  NewWorklogHandler(svc.Worklog),
		Taxonomy: NewTaxonomyHandler(svc.Taxonomy),
		Export:   NewExportHandler(svc.Export),
		SSE:      NewSSEHandler(hub),
	}
}
