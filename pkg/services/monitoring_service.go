package services

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxLogEntries 保持するリクエストログの上限
const maxLogEntries = 1000

// RequestLogEntry は単一のリクエストログを表します。
type RequestLogEntry struct {
	RequestID    string        `json:"request_id"`
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
}

// MonitoringService はAPIのモニタリング機能を提供します。
type MonitoringService struct {
	logs []RequestLogEntry
	mu   sync.RWMutex
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs: make([]RequestLogEntry, 0),
	}
}

// LogRequest はリクエストを記録します。上限を超えた分は古い順に捨てます。
func (s *MonitoringService) LogRequest(entry RequestLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[len(s.logs)-maxLogEntries:]
	}
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// モニタリングAPI自身は記録しない
		if c.Request.URL.Path == "/monitoring/logs" {
			return
		}

		s.LogRequest(RequestLogEntry{
			RequestID:    uuid.NewString(),
			Timestamp:    start,
			Path:         c.Request.URL.Path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// MonitoringSummary 集計済みのリクエスト統計です。
type MonitoringSummary struct {
	TotalRequests int               `json:"total_requests"`
	Endpoints     map[string]int    `json:"endpoints"`
	StatusClasses map[string]int    `json:"status_classes"`
	RecentErrors  []RequestLogEntry `json:"recent_errors"`
}

// Summary は指定された期間のログを集計して返します。
func (s *MonitoringService) Summary(period time.Duration) MonitoringSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := time.Now().Add(-period)

	summary := MonitoringSummary{
		Endpoints: make(map[string]int),
		StatusClasses: map[string]int{
			"2xx Success":      0,
			"4xx Client Error": 0,
			"5xx Server Error": 0,
		},
		RecentErrors: make([]RequestLogEntry, 0),
	}

	filtered := make([]RequestLogEntry, 0, len(s.logs))
	for _, entry := range s.logs {
		if entry.Timestamp.After(since) {
			filtered = append(filtered, entry)
		}
	}

	summary.TotalRequests = len(filtered)
	for _, entry := range filtered {
		summary.Endpoints[entry.Path]++
		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			summary.StatusClasses["2xx Success"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			summary.StatusClasses["4xx Client Error"]++
		case entry.StatusCode >= 500:
			summary.StatusClasses["5xx Server Error"]++
		}
	}

	// 直近のサーバーエラーを新しい順に最大10件
	for i := len(filtered) - 1; i >= 0 && len(summary.RecentErrors) < 10; i-- {
		if filtered[i].StatusCode >= 500 {
			summary.RecentErrors = append(summary.RecentErrors, filtered[i])
		}
	}

	return summary
}
