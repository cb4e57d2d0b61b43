package models

// エラー種別。バリデーションエラーは400、フィット以降の失敗は500で返す。
const (
	ErrKindMissingField       = "missing_field"
	ErrKindMissingColumn      = "missing_column"
	ErrKindInsufficientData   = "insufficient_data"
	ErrKindMalformedValue     = "malformed_value"
	ErrKindForecastFailure    = "forecast_failure"
	ErrKindForecastTimeout    = "forecast_timeout"
	ErrKindInvalidWeekday     = "invalid_weekday"
	ErrKindInvalidStaffBudget = "invalid_staff_budget"
	ErrKindModelUnavailable   = "model_unavailable"
)

// APIError API境界で返す機械可読なエラー
type APIError struct {
	Kind       string `json:"kind"`
	Title      string `json:"error"`
	Message    string `json:"message,omitempty"`
	DaysNeeded int    `json:"days_needed,omitempty"`
}

// Error はerrorインターフェースを満たす
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Title + ": " + e.Message
	}
	return e.Title
}

// NewAPIError 新しいAPIErrorを生成
func NewAPIError(kind, title, message string) *APIError {
	return &APIError{Kind: kind, Title: title, Message: message}
}
