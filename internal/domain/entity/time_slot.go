package entity

import "time"

// TimeSlot is a bookable [StartTime, EndTime) interval under a doctor's calendar
type TimeSlot struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	CalendarID  int       `gorm:"not null;index:idx_timeslots_calendar_start" json:"calendar_id"`
	StartTime   time.Time `gorm:"not null;index:idx_timeslots_calendar_start" json:"start_time"`
	EndTime     time.Time `gorm:"not null" json:"end_time"`
	IsAvailable bool      `gorm:"not null;index" json:"is_available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Calendar *DoctorCalendar `gorm:"foreignKey:CalendarID" json:"calendar,omitempty"`
}

func (TimeSlot) TableName() string {
	return "timeslots"
}

// Overlaps reports whether the slot intersects [start, end).
func (s *TimeSlot) Overlaps(start, end time.Time) bool {
	return s.StartTime.Before(end) && s.EndTime.After(start)
}

// Duration of the slot
func (s *TimeSlot) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}
