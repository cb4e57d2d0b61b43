package services

import (
	"fmt"
	"math"
	"time"

	"foot-traffic-api/pkg/models"

	"gonum.org/v1/gonum/mat"
)

// Fourier orders for the seasonal components. Matches the usual GAM
// decomposition defaults: 10 harmonics for the yearly cycle, 3 for the
// weekly cycle, 4 for the daily cycle.
const (
	yearlyFourierOrder = 10
	weeklyFourierOrder = 3
	dailyFourierOrder  = 4
)

// ridgeLambda is added to the diagonal of the normal equations. Short
// series (14 points minimum) have far fewer rows than feature columns,
// so the unregularized system is singular.
const ridgeLambda = 1.0

// z value bracketing 80% of a standard normal distribution.
const z80 = 1.2815515655446004

const hoursPerDay = 24

// forecastModel holds the learned coefficients of the additive model
//
//	y(t) = trend(t) + yearly(t) + weekly(t) + daily(t) + events(t) + noise
//
// It binds one observation series to one event table and is discarded
// at the end of the request.
type forecastModel struct {
	events     []models.CalendarEvent
	eventNames []string
	eventCols  map[string]int

	epoch    time.Time // first observed timestamp
	spanDays float64   // observed span used to scale the trend input

	coef        []float64
	residualStd float64
}

// fitForecastModel solves the ridge-regularized least squares problem
// over the feature expansion of the observed timestamps.
func fitForecastModel(observations []models.Observation, events []models.CalendarEvent) (*forecastModel, error) {
	if len(observations) == 0 {
		return nil, fmt.Errorf("empty observation series")
	}

	for _, obs := range observations {
		if math.IsNaN(obs.Value) || math.IsInf(obs.Value, 0) {
			return nil, fmt.Errorf("non-finite value at %s", obs.Timestamp.Format("2006-01-02 15:04:05"))
		}
	}

	m := &forecastModel{
		events:    events,
		eventCols: make(map[string]int),
		epoch:     observations[0].Timestamp,
	}
	m.spanDays = observations[len(observations)-1].Timestamp.Sub(m.epoch).Hours() / hoursPerDay
	if m.spanDays <= 0 {
		m.spanDays = 1
	}

	// One indicator column per event name; every year of the same event
	// shares the column, like a recurring holiday regressor.
	for _, ev := range events {
		if _, ok := m.eventCols[ev.Name]; !ok {
			m.eventCols[ev.Name] = len(m.eventNames)
			m.eventNames = append(m.eventNames, ev.Name)
		}
	}

	n := len(observations)
	p := m.featureCount()

	x := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, obs := range observations {
		x.SetRow(i, m.features(obs.Timestamp))
		y.SetVec(i, obs.Value)
	}

	// Normal equations with a ridge term: (X'X + lambda*I) beta = X'y.
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 0; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+ridgeLambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return nil, fmt.Errorf("normal equations are singular: %v", err)
	}

	m.coef = make([]float64, p)
	for j := 0; j < p; j++ {
		c := beta.AtVec(j)
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("fit produced a non-finite coefficient")
		}
		m.coef[j] = c
	}

	// Residual standard deviation drives the uncertainty interval.
	var sumSq float64
	for _, obs := range observations {
		r := obs.Value - m.evaluate(obs.Timestamp)
		sumSq += r * r
	}
	m.residualStd = math.Sqrt(sumSq / float64(n))

	return m, nil
}

// featureCount is intercept + slope + Fourier pairs + event indicators.
func (m *forecastModel) featureCount() int {
	return 2 + 2*(yearlyFourierOrder+weeklyFourierOrder+dailyFourierOrder) + len(m.eventNames)
}

// features expands a timestamp into the model's design-matrix row.
func (m *forecastModel) features(t time.Time) []float64 {
	row := make([]float64, 0, m.featureCount())

	days := t.Sub(m.epoch).Hours() / hoursPerDay

	// Trend: intercept and a linear term scaled to the observed span.
	row = append(row, 1, days/m.spanDays)

	row = appendFourier(row, days/365.25, yearlyFourierOrder)
	row = appendFourier(row, days/7, weeklyFourierOrder)
	row = appendFourier(row, days, dailyFourierOrder)

	day := dateOnly(t)
	active := make([]float64, len(m.eventNames))
	for _, ev := range m.events {
		from := ev.Date.AddDate(0, 0, ev.LowerWindow)
		to := ev.Date.AddDate(0, 0, ev.UpperWindow)
		if !day.Before(from) && !day.After(to) {
			active[m.eventCols[ev.Name]] = 1
		}
	}
	row = append(row, active...)

	return row
}

// appendFourier appends sin/cos pairs of the given order for one cycle
// position x (in units of the component's period).
func appendFourier(row []float64, x float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		angle := 2 * math.Pi * float64(k) * x
		row = append(row, math.Sin(angle), math.Cos(angle))
	}
	return row
}

// evaluate returns the model's central estimate at t.
func (m *forecastModel) evaluate(t time.Time) float64 {
	var sum float64
	for j, f := range m.features(t) {
		sum += f * m.coef[j]
	}
	return sum
}

// trend returns only the non-periodic component at t.
func (m *forecastModel) trend(t time.Time) float64 {
	days := t.Sub(m.epoch).Hours() / hoursPerDay
	return m.coef[0] + m.coef[1]*days/m.spanDays
}

// predictPoint evaluates the fitted model at t with its 80% interval.
func (m *forecastModel) predictPoint(t time.Time) ForecastRow {
	yhat := m.evaluate(t)
	margin := z80 * m.residualStd
	return ForecastRow{
		Timestamp: t,
		Yhat:      yhat,
		YhatLower: yhat - margin,
		YhatUpper: yhat + margin,
		Trend:     m.trend(t),
	}
}

// dateOnly truncates a timestamp to midnight UTC for event matching.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
