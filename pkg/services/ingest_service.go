package services

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"foot-traffic-api/pkg/models"
)

// MinObservations 季節分解が意味を持つために必要な最小データ点数
const MinObservations = 14

// 受け付けるタイムスタンプ形式
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// IngestService 観測データの取り込みと検証を行うサービス
type IngestService struct{}

// NewIngestService 新しい取り込みサービスを作成
func NewIngestService() *IngestService {
	return &IngestService{}
}

// Ingest リクエストの観測データを検証し、タイムスタンプ昇順の系列に
// 正規化する。検証はモデルフィットの前にすべて同期的に行い、失敗は
// 種別付きのAPIErrorで返す。
func (s *IngestService) Ingest(req *models.PredictRequest) ([]models.Observation, *models.APIError) {
	if req == nil || len(req.Data) == 0 {
		return nil, &models.APIError{
			Kind:    models.ErrKindMissingField,
			Title:   "No data provided",
			Message: `Expected format: {"data": [{"ds": "2026-01-10 14:00:00", "y": 5}, ...]}`,
		}
	}

	for i, rec := range req.Data {
		if rec.DS == nil || rec.Y == nil {
			return nil, &models.APIError{
				Kind:    models.ErrKindMissingColumn,
				Title:   `Data must contain "ds" and "y" columns`,
				Message: fmt.Sprintf("record %d is missing a required column", i),
			}
		}
	}

	if len(req.Data) < MinObservations {
		return nil, &models.APIError{
			Kind:       models.ErrKindInsufficientData,
			Title:      "Insufficient data",
			Message:    fmt.Sprintf("At least %d data points are required. You provided %d.", MinObservations, len(req.Data)),
			DaysNeeded: MinObservations - len(req.Data),
		}
	}

	observations := make([]models.Observation, 0, len(req.Data))
	for i, rec := range req.Data {
		ts, err := parseTimestamp(rec.DS)
		if err != nil {
			return nil, &models.APIError{
				Kind:    models.ErrKindMalformedValue,
				Title:   "Malformed value",
				Message: fmt.Sprintf("record %d: %v", i, err),
			}
		}

		value, err := parseValue(rec.Y)
		if err != nil {
			return nil, &models.APIError{
				Kind:    models.ErrKindMalformedValue,
				Title:   "Malformed value",
				Message: fmt.Sprintf("record %d: %v", i, err),
			}
		}

		observations = append(observations, models.Observation{Timestamp: ts, Value: value})
	}

	// 同時刻は入力順を維持する
	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Timestamp.Before(observations[j].Timestamp)
	})

	return observations, nil
}

// parseTimestamp dsフィールドを日時としてパースする
func parseTimestamp(v any) (time.Time, error) {
	str, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("ds must be a string, got %T", v)
	}

	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, str); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, fmt.Errorf("could not parse timestamp %q", str)
}

// parseValue yフィールドを数値としてパースする（数値文字列も許容）
func parseValue(v any) (float64, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse value %q as a number", value)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("y must be a number, got %T", v)
	}
}
