package services

import (
	"context"
	"math"
	"testing"
	"time"

	"foot-traffic-api/pkg/models"

	"github.com/stretchr/testify/assert"
)

func newTestForecastService() *ForecastService {
	return NewForecastService(NewCalendarService(), 30*time.Second)
}

// makeSeries n日分の日次系列を生成する（平日100前後、週末は増える）
func makeSeries(n int) []models.Observation {
	observations := make([]models.Observation, n)
	base := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC) // 月曜
	for i := 0; i < n; i++ {
		ts := base.AddDate(0, 0, i)
		value := 100.0 + float64(i)*0.5
		if ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday {
			value += 60
		}
		observations[i] = models.Observation{Timestamp: ts, Value: value}
	}
	return observations
}

func TestFitAndForecastHorizon(t *testing.T) {
	s := newTestForecastService()
	observations := makeSeries(28)

	rows, apiErr := s.FitAndForecast(context.Background(), observations, 7)
	assert.Nil(t, apiErr)

	// 過去28点 + 将来7点
	assert.Len(t, rows, 35)

	response := s.Format(rows, observations, 7)
	assert.True(t, response.Success)
	assert.Len(t, response.Predictions, 7)
	assert.Equal(t, 28, response.ModelInfo.TrainingDataPoints)
	assert.Equal(t, 7, response.ModelInfo.ForecastPeriods)
	assert.Equal(t, "2026-03-02", response.ModelInfo.DateRange.Start)
	assert.Equal(t, "2026-03-29", response.ModelInfo.DateRange.End)

	// 予測はすべて最終観測より後で、1日刻み
	last := observations[len(observations)-1].Timestamp
	for i, p := range response.Predictions {
		ts, err := time.Parse("2006-01-02 15:04:05", p.DS)
		assert.NoError(t, err)
		assert.True(t, ts.After(last))
		assert.True(t, ts.Equal(last.AddDate(0, 0, i+1)))
	}
}

func TestFitAndForecastDefaultHorizon(t *testing.T) {
	s := newTestForecastService()
	observations := makeSeries(21)

	rows, apiErr := s.FitAndForecast(context.Background(), observations, 0)
	assert.Nil(t, apiErr)

	response := s.Format(rows, observations, 0)
	assert.Len(t, response.Predictions, DefaultHorizonDays)
}

func TestFitAndForecastBounds(t *testing.T) {
	s := newTestForecastService()
	observations := makeSeries(42)

	rows, apiErr := s.FitAndForecast(context.Background(), observations, 7)
	assert.Nil(t, apiErr)

	for _, row := range rows {
		assert.LessOrEqual(t, row.YhatLower, row.Yhat)
		assert.GreaterOrEqual(t, row.YhatUpper, row.Yhat)
	}
}

func TestFitAndForecastDeterministic(t *testing.T) {
	s := newTestForecastService()
	observations := makeSeries(28)

	first, apiErr := s.FitAndForecast(context.Background(), observations, 7)
	assert.Nil(t, apiErr)
	second, apiErr := s.FitAndForecast(context.Background(), observations, 7)
	assert.Nil(t, apiErr)

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.InDelta(t, first[i].Yhat, second[i].Yhat, 1e-9)
		assert.InDelta(t, first[i].YhatLower, second[i].YhatLower, 1e-9)
		assert.InDelta(t, first[i].YhatUpper, second[i].YhatUpper, 1e-9)
	}
}

func TestFitAndForecastLearnsWeeklyPattern(t *testing.T) {
	s := newTestForecastService()
	observations := makeSeries(56)

	rows, apiErr := s.FitAndForecast(context.Background(), observations, 7)
	assert.Nil(t, apiErr)

	future := rows[len(rows)-7:]
	var weekdaySum, weekendSum float64
	var weekdayCount, weekendCount int
	for _, row := range future {
		if row.Timestamp.Weekday() == time.Saturday || row.Timestamp.Weekday() == time.Sunday {
			weekendSum += row.Yhat
			weekendCount++
		} else {
			weekdaySum += row.Yhat
			weekdayCount++
		}
	}

	assert.Greater(t, weekendCount, 0)
	assert.Greater(t, weekdayCount, 0)
	assert.Greater(t, weekendSum/float64(weekendCount), weekdaySum/float64(weekdayCount))
}

func TestFitAndForecastTimeout(t *testing.T) {
	// 期限切れのデッドラインではフィット結果を待たずに打ち切る
	s := NewForecastService(NewCalendarService(), time.Nanosecond)
	observations := makeSeries(365)

	_, apiErr := s.FitAndForecast(context.Background(), observations, 7)
	assert.NotNil(t, apiErr)
	assert.Equal(t, models.ErrKindForecastTimeout, apiErr.Kind)
}

func TestFitAndForecastNonFiniteValue(t *testing.T) {
	s := newTestForecastService()
	observations := makeSeries(20)
	observations[4].Value = math.NaN()

	_, apiErr := s.FitAndForecast(context.Background(), observations, 7)
	assert.NotNil(t, apiErr)
	assert.Equal(t, models.ErrKindForecastFailure, apiErr.Kind)
}

func TestFormatRoundsToTwoDecimals(t *testing.T) {
	s := newTestForecastService()
	observations := makeSeries(28)

	rows, apiErr := s.FitAndForecast(context.Background(), observations, 7)
	assert.Nil(t, apiErr)

	response := s.Format(rows, observations, 7)
	for _, p := range response.Predictions {
		assert.InDelta(t, p.Yhat, math.Round(p.Yhat*100)/100, 1e-12)
		assert.InDelta(t, p.Trend, math.Round(p.Trend*100)/100, 1e-12)
	}
}
