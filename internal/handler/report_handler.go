// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vetalert/vetalert/internal/metrics"
	"github.com/vetalert/vetalert/internal/middleware"
	"github.com/vetalert/vetalert/internal/model"
)

// createdAtFormat はAPIレスポンスのcreatedAt表記。UTC・秒精度。
const createdAtFormat = "2006-01-02T15:04:05Z"

// ReportServiceInterface は通報ハンドラーが必要とするサービスインターフェース。
type ReportServiceInterface interface {
	// Create は通報を検証・採番して保存し、採番されたidを返す。
	Create(ctx context.Context, input model.ReportInput) (string, error)
	// List は全通報をcreatedAt降順で返す。
	List(ctx context.Context) ([]*model.Report, error)
	// Update は通報のstatus/decision/assignedToを部分更新する。
	Update(ctx context.Context, id string, patch model.ReportPatch) error
}

// ReportHandler は通報のHTTPハンドラー。
type ReportHandler struct {
	service ReportServiceInterface
	metrics metrics.MetricsCollector
}

// NewReportHandler はReportHandlerを生成する。
func NewReportHandler(service ReportServiceInterface, collector metrics.MetricsCollector) *ReportHandler {
	return &ReportHandler{
		service: service,
		metrics: collector,
	}
}

// createReportRequest は通報投稿リクエストのボディ。
type createReportRequest struct {
	AnimalType    string `json:"animalType"`
	Urgency       string `json:"urgency"`
	LocationText  string `json:"locationText"`
	Description   string `json:"description"`
	Geo           string `json:"geo"`
	ReporterName  string `json:"reporterName"`
	ReporterPhone string `json:"reporterPhone"`
}

// updateReportRequest はトリアージ更新リクエストのボディ。
// 省略されたフィールドと明示的なnullはどちらも「変更しない」を意味する。
type updateReportRequest struct {
	Status     *string `json:"status"`
	Decision   *string `json:"decision"`
	AssignedTo *string `json:"assignedTo"`
}

// reportResponse は通報1件のAPIレスポンス。
type reportResponse struct {
	ID            string `json:"id"`
	AnimalType    string `json:"animalType"`
	Urgency       string `json:"urgency"`
	LocationText  string `json:"locationText"`
	Description   string `json:"description"`
	Geo           string `json:"geo"`
	ReporterName  string `json:"reporterName"`
	ReporterPhone string `json:"reporterPhone"`
	Status        string `json:"status"`
	Decision      string `json:"decision"`
	AssignedTo    string `json:"assignedTo"`
	CreatedAt     string `json:"createdAt"`
}

// CreateReport は通報投稿を処理する。市民セッションは不要。
// POST /api/report
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordValidationFailure("malformed_body")
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewMissingRequiredFieldsError())
		return
	}

	id, err := h.service.Create(r.Context(), model.ReportInput{
		AnimalType:    req.AnimalType,
		Urgency:       req.Urgency,
		LocationText:  req.LocationText,
		Description:   req.Description,
		Geo:           req.Geo,
		ReporterName:  req.ReporterName,
		ReporterPhone: req.ReporterPhone,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordReportSubmitted()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok": true,
		"id": id,
	})
}

// ListReports は全通報の一覧を返す。RequireRescuerの後段に配置する。
// GET /api/reports
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("failed to list reports", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	results := make([]reportResponse, len(reports))
	for i, report := range reports {
		results[i] = toReportResponse(report)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":      true,
		"reports": results,
	})
}

// UpdateReport はトリアージ更新を処理する。RequireRescuerの後段に配置する。
// POST /api/report/{id}/update
func (h *ReportHandler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "id")

	var req updateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.RecordValidationFailure("malformed_body")
		middleware.WriteErrorResponse(w, http.StatusBadRequest, model.NewNothingToUpdateError())
		return
	}

	patch := model.ReportPatch{
		Status:     req.Status,
		Decision:   req.Decision,
		AssignedTo: req.AssignedTo,
	}

	if err := h.service.Update(r.Context(), reportID, patch); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.metrics.RecordTriageUpdate()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok": true,
	})
}

// handleServiceError はサービス層のエラーをHTTPレスポンスに変換する。
func (h *ReportHandler) handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		h.metrics.RecordValidationFailure(reasonLabel(apiErr.Code))
		status := http.StatusBadRequest
		if apiErr.Category == "auth" {
			status = http.StatusUnauthorized
		}
		middleware.WriteErrorResponse(w, status, apiErr)
		return
	}

	slog.Error("report operation failed", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// reasonLabel はエラーコードをメトリクスのreasonラベルに変換する。
func reasonLabel(code string) string {
	switch code {
	case model.ErrCodeMissingRequiredFields:
		return "missing_required_fields"
	case model.ErrCodeInvalidStatus:
		return "invalid_status"
	case model.ErrCodeInvalidDecision:
		return "invalid_decision"
	case model.ErrCodeNothingToUpdate:
		return "nothing_to_update"
	default:
		return "other"
	}
}

// toReportResponse はドメインのReportをAPIレスポンス型に変換する。
func toReportResponse(report *model.Report) reportResponse {
	return reportResponse{
		ID:            report.ID,
		AnimalType:    report.AnimalType,
		Urgency:       report.Urgency,
		LocationText:  report.LocationText,
		Description:   report.Description,
		Geo:           report.Geo,
		ReporterName:  report.ReporterName,
		ReporterPhone: report.ReporterPhone,
		Status:        string(report.Status),
		Decision:      string(report.Decision),
		AssignedTo:    report.AssignedTo,
		CreatedAt:     report.CreatedAt.UTC().Format(createdAtFormat),
	}
}
