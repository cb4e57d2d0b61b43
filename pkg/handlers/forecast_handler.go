package handlers

import (
	"net/http"

	"foot-traffic-api/pkg/models"
	"foot-traffic-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ForecastHandler 時系列予測ハンドラー
type ForecastHandler struct {
	ingestService   *services.IngestService
	forecastService *services.ForecastService
}

// NewForecastHandler 新しい予測ハンドラーを作成
func NewForecastHandler(ingestService *services.IngestService, forecastService *services.ForecastService) *ForecastHandler {
	return &ForecastHandler{
		ingestService:   ingestService,
		forecastService: forecastService,
	}
}

// Predict 観測系列にモデルをフィットして将来の予測を返す
func (h *ForecastHandler) Predict(c *gin.Context) {
	var request models.PredictRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, &models.APIError{
			Kind:    models.ErrKindMalformedValue,
			Title:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	h.runForecast(c, &request)
}

// runForecast 検証からレスポンス整形までの共通パイプライン
func (h *ForecastHandler) runForecast(c *gin.Context, request *models.PredictRequest) {
	observations, apiErr := h.ingestService.Ingest(request)
	if apiErr != nil {
		c.JSON(http.StatusBadRequest, apiErr)
		return
	}

	periods := request.Periods
	if periods < 1 {
		periods = services.DefaultHorizonDays
	}

	rows, apiErr := h.forecastService.FitAndForecast(c.Request.Context(), observations, periods)
	if apiErr != nil {
		c.JSON(statusForError(apiErr), apiErr)
		return
	}

	c.JSON(http.StatusOK, h.forecastService.Format(rows, observations, periods))
}

// statusForError エラー種別をHTTPステータスに対応付ける。
// バリデーション系は400、フィット以降と未ロードは500。
func statusForError(apiErr *models.APIError) int {
	switch apiErr.Kind {
	case models.ErrKindForecastFailure, models.ErrKindForecastTimeout, models.ErrKindModelUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
