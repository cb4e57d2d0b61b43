package handlers

import (
	"net/http"

	"foot-traffic-api/pkg/models"
	"foot-traffic-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// ServiceName ヘルスチェックで返すサービス名
const ServiceName = "Foot Traffic & Staffing Prediction API"

// StaffingHandler スタッフ配置推奨ハンドラー
type StaffingHandler struct {
	staffingService *services.StaffingService
}

// NewStaffingHandler 新しいスタッフ配置ハンドラーを作成
func NewStaffingHandler(staffingService *services.StaffingService) *StaffingHandler {
	return &StaffingHandler{
		staffingService: staffingService,
	}
}

// Staffing 歩行者数予測を上限人数で正規化した配置表を返す
func (h *StaffingHandler) Staffing(c *gin.Context) {
	var request models.StaffingRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, &models.APIError{
			Kind:    models.ErrKindMalformedValue,
			Title:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	if request.MaxStaff == nil {
		c.JSON(http.StatusBadRequest, &models.APIError{
			Kind:    models.ErrKindMissingField,
			Title:   "No data provided",
			Message: `Expected format: {"max_staff": 10, "day": "Monday"}`,
		})
		return
	}

	response, apiErr := h.staffingService.BuildSchedule(request.Day, *request.MaxStaff)
	if apiErr != nil {
		c.JSON(statusForError(apiErr), apiErr)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Health 常に200を返し、スタッフィングモデルのロード状態を報告する
func (h *StaffingHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service":          ServiceName,
		"pedestrian_model": h.staffingService.ModelStatus(),
		"scaler":           h.staffingService.ScalerStatus(),
	})
}
