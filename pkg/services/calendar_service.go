package services

import (
	"time"

	"foot-traffic-api/pkg/models"
)

// 小売の客足に影響する年中行事。月日は年に依らず固定で、
// 移動祝日（イースター、レイバーデーなど）も代表日で近似している。
// TODO: 移動祝日を年ごとに正しく計算する（現状は2024年前後の日付で固定）。
var calendarEventDates = []struct {
	name  string
	month time.Month
	day   int
}{
	{"New Year's Day", time.January, 1},
	{"Martin Luther King Jr. Day", time.January, 15},
	{"Valentine's Day", time.February, 14},
	{"Presidents Day", time.February, 17},
	{"Easter", time.April, 20},
	{"Memorial Day", time.May, 27},
	{"Independence Day", time.July, 4},
	{"Labor Day", time.September, 2},
	{"Halloween", time.October, 31},
	{"Thanksgiving", time.November, 28},
	{"Black Friday", time.November, 29},
	{"Cyber Monday", time.December, 2},
	{"Christmas Eve", time.December, 24},
	{"Christmas", time.December, 25},
	{"New Year's Eve", time.December, 31},
}

// CalendarService カレンダーイベント生成サービス
type CalendarService struct{}

// NewCalendarService 新しいカレンダーイベント生成サービスを作成
func NewCalendarService() *CalendarService {
	return &CalendarService{}
}

// GenerateEvents 指定した年範囲（両端含む）のイベント表を生成する。
// 既定の影響範囲は当日と翌日（0, 1）。ブラックフライデーは前日から
// 3日後まで、クリスマスは1週間前から翌日までに広げる。
func (s *CalendarService) GenerateEvents(startYear, endYear int) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, (endYear-startYear+1)*len(calendarEventDates))

	for year := startYear; year <= endYear; year++ {
		for _, e := range calendarEventDates {
			lower, upper := 0, 1
			switch e.name {
			case "Black Friday":
				lower, upper = -1, 3
			case "Christmas":
				lower, upper = -7, 1
			}

			events = append(events, models.CalendarEvent{
				Name:        e.name,
				Date:        time.Date(year, e.month, e.day, 0, 0, 0, 0, time.UTC),
				LowerWindow: lower,
				UpperWindow: upper,
			})
		}
	}

	return events
}
