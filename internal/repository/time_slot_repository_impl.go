package repository

import (
	"errors"
	"time"

	"medcare-api/internal/domain/entity"
	domainRepo "medcare-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type timeSlotRepository struct{}

func NewTimeSlotRepository() domainRepo.TimeSlotRepository {
	return &timeSlotRepository{}
}

func (r *timeSlotRepository) Create(db *gorm.DB, slot *entity.TimeSlot) error {
	return db.Omit(clause.Associations).Create(slot).Error
}

func (r *timeSlotRepository) FindByID(db *gorm.DB, id int) (*entity.TimeSlot, error) {
	var slot entity.TimeSlot
	err := db.
		Preload("Calendar.Doctor.User").
		Preload("Calendar.Doctor.Department").
		Where("id = ?", id).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// FindAll lists slots ordered by start time. Supports optional filters: doctor, date range and availability.
func (r *timeSlotRepository) FindAll(db *gorm.DB, filter *entity.TimeSlotFilter) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	query := db.Model(&entity.TimeSlot{}).
		Joins("JOIN doctor_calendars ON doctor_calendars.id = timeslots.calendar_id")

	if filter != nil {
		if filter.DoctorID != 0 {
			query = query.Where("doctor_calendars.doctor_id = ?", filter.DoctorID)
		}
		if filter.DateFrom != nil {
			query = query.Where("timeslots.start_time >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			query = query.Where("timeslots.start_time < ?", *filter.DateTo)
		}
		if filter.AvailableOnly {
			query = query.Where("timeslots.is_available = ? AND doctor_calendars.availability = ?", true, true)
		}
	}

	err := query.
		Preload("Calendar.Doctor.User").
		Preload("Calendar.Doctor.Department").
		Order("timeslots.start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *timeSlotRepository) FindByCalendarID(db *gorm.DB, calendarID int, from time.Time) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.
		Where("calendar_id = ? AND start_time >= ?", calendarID, from).
		Order("start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// HasOverlap uses the three-clause interval predicate: an existing slot that
// contains the new start, contains the new end, or lies inside the new interval.
func (r *timeSlotRepository) HasOverlap(db *gorm.DB, calendarID int, start, end time.Time, excludeID int) (bool, error) {
	var count int64
	query := db.Model(&entity.TimeSlot{}).
		Where("calendar_id = ?", calendarID).
		Where(
			db.Where("start_time <= ? AND end_time > ?", start, start).
				Or("start_time < ? AND end_time >= ?", end, end).
				Or("start_time >= ? AND end_time <= ?", start, end),
		)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *timeSlotRepository) Update(db *gorm.DB, slot *entity.TimeSlot) error {
	return db.Omit(clause.Associations).Save(slot).Error
}

func (r *timeSlotRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.TimeSlot{})
	return result.RowsAffected, result.Error
}

// Claim atomically marks a slot unavailable ONLY if it is still available.
// Returns affected rows: 1 = claimed, 0 = already taken or missing.
func (r *timeSlotRepository) Claim(db *gorm.DB, id int) (int64, error) {
	result := db.Model(&entity.TimeSlot{}).
		Where("id = ? AND is_available = ?", id, true).
		Update("is_available", false)
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepository) Release(db *gorm.DB, id int) error {
	return db.Model(&entity.TimeSlot{}).
		Where("id = ?", id).
		Update("is_available", true).Error
}
