package services

import (
	"context"
	"log"
	"math"
	"time"

	"foot-traffic-api/pkg/models"
)

// DefaultHorizonDays 予測日数の既定値
const DefaultHorizonDays = 7

// イベント表がカバーする年範囲
const (
	eventStartYear = 2024
	eventEndYear   = 2027
)

// ForecastRow フィット済みモデルを1時点で評価した結果。
// 過去分も含むため、レスポンス整形時に将来分だけを切り出す。
type ForecastRow struct {
	Timestamp time.Time
	Yhat      float64
	YhatLower float64
	YhatUpper float64
	Trend     float64
}

// ForecastService 時系列予測サービス。モデルはリクエストごとに
// フィットして破棄し、リクエスト間で共有しない。
type ForecastService struct {
	calendarService *CalendarService
	fitTimeout      time.Duration
}

// NewForecastService 新しい予測サービスを作成
func NewForecastService(calendarService *CalendarService, fitTimeout time.Duration) *ForecastService {
	return &ForecastService{
		calendarService: calendarService,
		fitTimeout:      fitTimeout,
	}
}

// FitAndForecast 検証済みの系列にモデルをフィットし、最終観測日から
// horizonDays日先まで日次で評価した全行（過去分含む）を返す。
func (s *ForecastService) FitAndForecast(ctx context.Context, observations []models.Observation, horizonDays int) ([]ForecastRow, *models.APIError) {
	if horizonDays < 1 {
		horizonDays = DefaultHorizonDays
	}

	// イベント表はキャッシュせず毎回生成する（生成コストは十分小さい）
	events := s.calendarService.GenerateEvents(eventStartYear, eventEndYear)

	ctx, cancel := context.WithTimeout(ctx, s.fitTimeout)
	defer cancel()

	type fitResult struct {
		model *forecastModel
		err   error
	}

	resultCh := make(chan fitResult, 1)
	go func() {
		model, err := fitForecastModel(observations, events)
		resultCh <- fitResult{model: model, err: err}
	}()

	var model *forecastModel
	select {
	case <-ctx.Done():
		log.Printf("予測モデルのフィットがタイムアウトしました: %v", ctx.Err())
		return nil, &models.APIError{
			Kind:    models.ErrKindForecastTimeout,
			Title:   "Prediction failed",
			Message: "model fit did not complete before the deadline",
		}
	case result := <-resultCh:
		if result.err != nil {
			log.Printf("予測モデルのフィットに失敗しました: %v", result.err)
			return nil, &models.APIError{
				Kind:    models.ErrKindForecastFailure,
				Title:   "Prediction failed",
				Message: result.err.Error(),
			}
		}
		model = result.model
	}

	// 観測インデックスに、最終観測からhorizonDays日分の日次時点を足す
	rows := make([]ForecastRow, 0, len(observations)+horizonDays)
	for _, obs := range observations {
		rows = append(rows, model.predictPoint(obs.Timestamp))
	}

	last := observations[len(observations)-1].Timestamp
	for i := 1; i <= horizonDays; i++ {
		rows = append(rows, model.predictPoint(last.AddDate(0, 0, i)))
	}

	return rows, nil
}

// Format 全予測行から将来分（最終観測より厳密に後）だけを切り出し、
// レスポンス形式に整形する。
func (s *ForecastService) Format(rows []ForecastRow, observations []models.Observation, horizonDays int) *models.PredictResponse {
	if horizonDays < 1 {
		horizonDays = DefaultHorizonDays
	}

	last := observations[len(observations)-1].Timestamp

	predictions := make([]models.ForecastPoint, 0, horizonDays)
	for _, row := range rows {
		if !row.Timestamp.After(last) {
			continue
		}
		predictions = append(predictions, models.ForecastPoint{
			DS:        row.Timestamp.Format("2006-01-02 15:04:05"),
			Yhat:      round2(row.Yhat),
			YhatLower: round2(row.YhatLower),
			YhatUpper: round2(row.YhatUpper),
			Trend:     round2(row.Trend),
		})
	}

	return &models.PredictResponse{
		Success:     true,
		Predictions: predictions,
		ModelInfo: models.ModelInfo{
			TrainingDataPoints: len(observations),
			ForecastPeriods:    horizonDays,
			DateRange: models.DateRange{
				Start: observations[0].Timestamp.Format("2006-01-02"),
				End:   last.Format("2006-01-02"),
			},
		},
	}
}

// round2 小数第2位で丸める
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
