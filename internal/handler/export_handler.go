package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hitoshi/notevault/internal/export"
	"github.com/hitoshi/notevault/internal/model"
)

// ExportServiceInterface はエクスポートハンドラーが必要とするサービスインターフェース。
type ExportServiceInterface interface {
	// BuildPayload は全データのバックアップペイロードを生成する。
	BuildPayload(ctx context.Context) (*model.ExportPayload, error)
}

// ExportHandler はバックアップダウンロードのHTTPハンドラー。
type ExportHandler struct {
	service ExportServiceInterface
}

// NewExportHandler はExportHandlerを生成する。
func NewExportHandler(service ExportServiceInterface) *ExportHandler {
	return &ExportHandler{service: service}
}

// Export は全データをJSONファイルとしてダウンロードさせる。
// GET /api/export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	payload, err := h.service.BuildPayload(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(payload.ExportedAt)))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.Encode(payload)
}
