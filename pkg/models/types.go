package models

import "time"

// PredictRequest represents an incoming forecast request
type PredictRequest struct {
	Data    []RawObservation `json:"data"`
	Periods int              `json:"periods,omitempty"` // 予測日数（省略時は7日）
}

// RawObservation 検証前の観測レコード。ds/yはバリデーション段階で
// 厳密にパースするため、バインド時は型を固定しない。
type RawObservation struct {
	DS any `json:"ds"`
	Y  any `json:"y"`
}

// Observation 検証済みの観測値（1リクエストの間だけ保持される）
type Observation struct {
	Timestamp time.Time
	Value     float64
}

// CalendarEvent 繰り返しイベントの定義。LowerWindow/UpperWindowは
// 基準日からの影響範囲（日単位、両端含む）。
type CalendarEvent struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	LowerWindow int       `json:"lower_window"`
	UpperWindow int       `json:"upper_window"`
}

// ForecastPoint 将来1日分の予測値
type ForecastPoint struct {
	DS        string  `json:"ds"`
	Yhat      float64 `json:"yhat"`
	YhatLower float64 `json:"yhat_lower"`
	YhatUpper float64 `json:"yhat_upper"`
	Trend     float64 `json:"trend"`
}

// DateRange 学習データの日付範囲（YYYY-MM-DD）
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ModelInfo 学習に使ったデータのメタ情報
type ModelInfo struct {
	TrainingDataPoints int       `json:"training_data_points"`
	ForecastPeriods    int       `json:"forecast_periods"`
	DateRange          DateRange `json:"date_range"`
}

// PredictResponse /predictの成功レスポンス
type PredictResponse struct {
	Success     bool            `json:"success"`
	Predictions []ForecastPoint `json:"predictions"`
	ModelInfo   ModelInfo       `json:"model_info"`
}

// StaffingRequest /staffingへのリクエストボディ
type StaffingRequest struct {
	MaxStaff *float64 `json:"max_staff"`
	Day      string   `json:"day,omitempty"` // 省略時は当日の曜日
}

// StaffingSlot 1時間分のスタッフ推奨値
type StaffingSlot struct {
	Hour                 int     `json:"hour"`
	Time                 string  `json:"time"`
	PredictedPedestrians int     `json:"predicted_pedestrians"`
	RecommendedStaff     float64 `json:"recommended_staff"`
}

// StaffingSummary スタッフィング結果のサマリー
type StaffingSummary struct {
	PeakHour                  int `json:"peak_hour"`
	PeakPedestrians           int `json:"peak_pedestrians"`
	TotalPredictedPedestrians int `json:"total_predicted_pedestrians"`
}

// StaffingResponse /staffingの成功レスポンス
type StaffingResponse struct {
	Success          bool            `json:"success"`
	Day              string          `json:"day"`
	MaxStaff         float64         `json:"max_staff"`
	StaffingSchedule []StaffingSlot  `json:"staffing_schedule"`
	Summary          StaffingSummary `json:"summary"`
}
