package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"foot-traffic-api/pkg/models"
)

// WeekdayNames 曜日名から特徴量の曜日番号への対応（月曜=0）
var WeekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var weekdayNumbers = map[string]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6,
}

// featureScaler オフライン学習で作られたStandardScalerのパラメータ
type featureScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// transform applies (x - mean) / scale per feature.
func (s *featureScaler) transform(features []float64) []float64 {
	scaled := make([]float64, len(features))
	for i, v := range features {
		scaled[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return scaled
}

// denseLayer 全結合層の重み。Weightsは[入力][出力]の向き。
type denseLayer struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"`
}

// pedestrianModel オフライン学習済みの歩行者数回帰モデル
type pedestrianModel struct {
	Layers []denseLayer `json:"layers"`
}

// predict runs the forward pass over [hour, weekdayNum] scaled features.
func (m *pedestrianModel) predict(features []float64) float64 {
	vec := features
	for _, layer := range m.Layers {
		next := make([]float64, len(layer.Biases))
		for j := range layer.Biases {
			sum := layer.Biases[j]
			for i, v := range vec {
				sum += v * layer.Weights[i][j]
			}
			if layer.Activation == "relu" && sum < 0 {
				sum = 0
			}
			next[j] = sum
		}
		vec = next
	}
	return vec[0]
}

// StaffingService 歩行者数モデルに基づくスタッフ配置の推奨サービス。
// モデルとスケーラーはプロセス起動時に一度だけ読み込み、以後は
// 読み取り専用で共有する。読み込みに失敗してもプロセスは落とさず、
// /staffingはモデル未ロードのエラーを返す。
type StaffingService struct {
	model  *pedestrianModel
	scaler *featureScaler
}

// NewStaffingService モデルとスケーラーのファイルを読み込んでサービスを作成
func NewStaffingService(modelPath, scalerPath string) *StaffingService {
	s := &StaffingService{}

	model, err := loadPedestrianModel(modelPath)
	if err != nil {
		log.Printf("Warning: Could not load pedestrian model: %v", err)
	} else {
		s.model = model
	}

	scaler, err := loadFeatureScaler(scalerPath)
	if err != nil {
		log.Printf("Warning: Could not load scaler: %v", err)
	} else {
		s.scaler = scaler
	}

	if s.Available() {
		log.Println("Pedestrian model and scaler loaded successfully.")
	}

	return s
}

// loadPedestrianModel モデルファイルを読み込んで形状を検証する
func loadPedestrianModel(path string) (*pedestrianModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var model pedestrianModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}

	if len(model.Layers) == 0 {
		return nil, fmt.Errorf("%s: model has no layers", path)
	}

	// 入力は[hour, weekday_num]の2特徴量、出力は歩行者数1つ
	inputs := 2
	for i, layer := range model.Layers {
		if len(layer.Weights) != inputs {
			return nil, fmt.Errorf("%s: layer %d expects %d inputs, weights have %d rows", path, i, inputs, len(layer.Weights))
		}
		for _, row := range layer.Weights {
			if len(row) != len(layer.Biases) {
				return nil, fmt.Errorf("%s: layer %d weight/bias shape mismatch", path, i)
			}
		}
		inputs = len(layer.Biases)
	}
	if inputs != 1 {
		return nil, fmt.Errorf("%s: final layer must have a single output, got %d", path, inputs)
	}

	return &model, nil
}

// loadFeatureScaler スケーラーファイルを読み込んで形状を検証する
func loadFeatureScaler(path string) (*featureScaler, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scaler featureScaler
	if err := json.Unmarshal(data, &scaler); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}

	if len(scaler.Mean) != 2 || len(scaler.Scale) != 2 {
		return nil, fmt.Errorf("%s: scaler must carry mean/scale for 2 features", path)
	}
	for _, sc := range scaler.Scale {
		if sc == 0 {
			return nil, fmt.Errorf("%s: scaler has a zero scale factor", path)
		}
	}

	return &scaler, nil
}

// Available モデルとスケーラーの両方が読み込み済みかを返す
func (s *StaffingService) Available() bool {
	return s.model != nil && s.scaler != nil
}

// ModelStatus ヘルスチェック用のモデル状態
func (s *StaffingService) ModelStatus() string {
	if s.model != nil {
		return "loaded"
	}
	return "not loaded"
}

// ScalerStatus ヘルスチェック用のスケーラー状態
func (s *StaffingService) ScalerStatus() string {
	if s.scaler != nil {
		return "loaded"
	}
	return "not loaded"
}

// HourlyPredictions 指定曜日の0〜23時の歩行者数予測（非負の整数）
func (s *StaffingService) HourlyPredictions(weekdayNum int) [24]int {
	var predictions [24]int
	for hour := 0; hour < 24; hour++ {
		scaled := s.scaler.transform([]float64{float64(hour), float64(weekdayNum)})
		predicted := int(s.model.predict(scaled))
		if predicted < 0 {
			predicted = 0
		}
		predictions[hour] = predicted
	}
	return predictions
}

// NormalizeStaffing ピーク時間帯がmaxStaffになるように予測カーブを
// 正規化する。全時間帯が0の場合は全て0を返す。
func NormalizeStaffing(predictions [24]int, maxStaff float64) [24]float64 {
	maxPedestrians := 0
	for _, p := range predictions {
		if p > maxPedestrians {
			maxPedestrians = p
		}
	}

	var staffing [24]float64
	if maxPedestrians == 0 {
		return staffing
	}

	for hour, p := range predictions {
		staffing[hour] = round1(float64(p) / float64(maxPedestrians) * maxStaff)
	}
	return staffing
}

// BuildSchedule 曜日と上限人数からスタッフ配置表を組み立てる
func (s *StaffingService) BuildSchedule(dayName string, maxStaff float64) (*models.StaffingResponse, *models.APIError) {
	if !s.Available() {
		return nil, &models.APIError{
			Kind:    models.ErrKindModelUnavailable,
			Title:   "Model not loaded",
			Message: "pedestrian model or scaler is missing; the staffing endpoint is unavailable",
		}
	}

	if dayName == "" {
		dayName = time.Now().Weekday().String()
	}

	weekdayNum, ok := weekdayNumbers[dayName]
	if !ok {
		return nil, &models.APIError{
			Kind:    models.ErrKindInvalidWeekday,
			Title:   fmt.Sprintf("Invalid day: %s", dayName),
			Message: fmt.Sprintf("day must be one of %v", WeekdayNames),
		}
	}

	if maxStaff <= 0 {
		return nil, &models.APIError{
			Kind:  models.ErrKindInvalidStaffBudget,
			Title: "max_staff must be a positive number",
		}
	}

	predictions := s.HourlyPredictions(weekdayNum)
	staffing := NormalizeStaffing(predictions, maxStaff)

	schedule := make([]models.StaffingSlot, 24)
	peakHour, peakPedestrians, total := 0, 0, 0
	for hour := 0; hour < 24; hour++ {
		schedule[hour] = models.StaffingSlot{
			Hour:                 hour,
			Time:                 fmt.Sprintf("%02d:00", hour),
			PredictedPedestrians: predictions[hour],
			RecommendedStaff:     staffing[hour],
		}
		total += predictions[hour]
		if predictions[hour] > peakPedestrians {
			peakPedestrians = predictions[hour]
			peakHour = hour
		}
	}

	return &models.StaffingResponse{
		Success:          true,
		Day:              dayName,
		MaxStaff:         maxStaff,
		StaffingSchedule: schedule,
		Summary: models.StaffingSummary{
			PeakHour:                  peakHour,
			PeakPedestrians:           peakPedestrians,
			TotalPredictedPedestrians: total,
		},
	}, nil
}

// round1 小数第1位で丸める
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
