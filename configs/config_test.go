package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// テスト用の環境変数を設定
	testCases := map[string]string{
		"PORT":                  "9000",
		"ENVIRONMENT":           "test",
		"PEDESTRIAN_MODEL_PATH": "testdata/model.json",
		"SCALER_PATH":           "testdata/scaler.json",
		"FIT_TIMEOUT_SECONDS":   "5",
		"RATE_LIMIT_RPS":        "3",
	}

	// 環境変数を設定
	for key, value := range testCases {
		os.Setenv(key, value)
	}

	// テスト後にクリーンアップ
	defer func() {
		for key := range testCases {
			os.Unsetenv(key)
		}
	}()

	// 設定を読み込み
	cfg := LoadConfig()

	// 検証
	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be '9000', got '%s'", cfg.Port)
	}

	if cfg.Environment != "test" {
		t.Errorf("Expected Environment to be 'test', got '%s'", cfg.Environment)
	}

	if cfg.PedestrianModelPath != "testdata/model.json" {
		t.Errorf("Expected PedestrianModelPath to be 'testdata/model.json', got '%s'", cfg.PedestrianModelPath)
	}

	if cfg.ScalerPath != "testdata/scaler.json" {
		t.Errorf("Expected ScalerPath to be 'testdata/scaler.json', got '%s'", cfg.ScalerPath)
	}

	if cfg.FitTimeoutSeconds != 5 {
		t.Errorf("Expected FitTimeoutSeconds to be 5, got %d", cfg.FitTimeoutSeconds)
	}

	if cfg.RateLimitRPS != 3 {
		t.Errorf("Expected RateLimitRPS to be 3, got %d", cfg.RateLimitRPS)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	// 環境変数をクリア
	vars := []string{
		"PORT", "ENVIRONMENT", "PEDESTRIAN_MODEL_PATH",
		"SCALER_PATH", "FIT_TIMEOUT_SECONDS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	}

	for _, v := range vars {
		os.Unsetenv(v)
	}

	// 設定を読み込み
	cfg := LoadConfig()

	// デフォルト値の検証
	if cfg.Port != "5002" {
		t.Errorf("Expected default Port to be '5002', got '%s'", cfg.Port)
	}

	if cfg.Environment != "development" {
		t.Errorf("Expected default Environment to be 'development', got '%s'", cfg.Environment)
	}

	if cfg.PedestrianModelPath != "pedestrian_model.json" {
		t.Errorf("Expected default PedestrianModelPath to be 'pedestrian_model.json', got '%s'", cfg.PedestrianModelPath)
	}

	if cfg.FitTimeoutSeconds != 30 {
		t.Errorf("Expected default FitTimeoutSeconds to be 30, got %d", cfg.FitTimeoutSeconds)
	}
}

func TestLoadConfigInvalidInt(t *testing.T) {
	// 数値として不正な値はデフォルトに落ちる
	os.Setenv("FIT_TIMEOUT_SECONDS", "not-a-number")
	defer os.Unsetenv("FIT_TIMEOUT_SECONDS")

	cfg := LoadConfig()

	if cfg.FitTimeoutSeconds != 30 {
		t.Errorf("Expected FitTimeoutSeconds to fall back to 30, got %d", cfg.FitTimeoutSeconds)
	}
}
