package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"foot-traffic-api/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// PredictFromFile アップロードされた観測ファイル（.xlsx/.csv）から
// 予測を実行する。ヘッダー行で日付列と観測値列を検出し、以降は
// /predictと同じパイプラインに乗せる。
func (h *ForecastHandler) PredictFromFile(c *gin.Context) {
	c.Request.ParseMultipartForm(10 << 20) // 10MB limit

	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, &models.APIError{
			Kind:    models.ErrKindMissingField,
			Title:   "No file provided",
			Message: `upload the observation file in the "file" form field`,
		})
		return
	}
	defer file.Close()

	var rows [][]string
	fileName := strings.ToLower(fileHeader.Filename)

	switch {
	case strings.HasSuffix(fileName, ".xlsx"):
		f, err := excelize.OpenReader(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, &models.APIError{
				Kind:    models.ErrKindMalformedValue,
				Title:   "Could not read Excel file",
				Message: err.Error(),
			})
			return
		}
		rows, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			c.JSON(http.StatusBadRequest, &models.APIError{
				Kind:    models.ErrKindMalformedValue,
				Title:   "Could not read Excel sheet",
				Message: err.Error(),
			})
			return
		}
	case strings.HasSuffix(fileName, ".csv"):
		rows, err = csv.NewReader(file).ReadAll()
		if err != nil {
			c.JSON(http.StatusBadRequest, &models.APIError{
				Kind:    models.ErrKindMalformedValue,
				Title:   "Could not parse CSV file",
				Message: err.Error(),
			})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, &models.APIError{
			Kind:    models.ErrKindMalformedValue,
			Title:   "Unsupported file format",
			Message: "upload an .xlsx or .csv file",
		})
		return
	}

	if len(rows) < 2 {
		c.JSON(http.StatusBadRequest, &models.APIError{
			Kind:  models.ErrKindMissingField,
			Title: "File must contain a header row and at least one data row",
		})
		return
	}

	header := rows[0]
	dateColIdx := findIndex(header, "ds", "date", "timestamp")
	valueColIdx := findIndex(header, "y", "count", "visitors", "value")
	if dateColIdx == -1 || valueColIdx == -1 {
		c.JSON(http.StatusBadRequest, &models.APIError{
			Kind:    models.ErrKindMissingColumn,
			Title:   `Data must contain "ds" and "y" columns`,
			Message: "the header row needs a date column (ds/date/timestamp) and a value column (y/count/visitors/value)",
		})
		return
	}

	request := models.PredictRequest{
		Data: make([]models.RawObservation, 0, len(rows)-1),
	}
	for _, row := range rows[1:] {
		var obs models.RawObservation
		if dateColIdx < len(row) && row[dateColIdx] != "" {
			obs.DS = row[dateColIdx]
		}
		if valueColIdx < len(row) && row[valueColIdx] != "" {
			obs.Y = row[valueColIdx]
		}
		request.Data = append(request.Data, obs)
	}

	if periodsStr := c.PostForm("periods"); periodsStr != "" {
		if periods, err := strconv.Atoi(periodsStr); err == nil {
			request.Periods = periods
		}
	}

	h.runForecast(c, &request)
}

// findIndex ヘッダー行から候補名に一致する最初の列を探す
func findIndex(header []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, name := range header {
			if strings.EqualFold(strings.TrimSpace(name), candidate) {
				return i
			}
		}
	}
	return -1
}
