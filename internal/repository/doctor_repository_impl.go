package repository

import (
	"errors"

	"medcare-api/internal/domain/entity"
	domainRepo "medcare-api/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit(clause.Associations).Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id int) (*entity.Doctor, error) {
	return r.findOne(db.Where("doctors.id = ?", id))
}

func (r *doctorRepository) FindByUserID(db *gorm.DB, userID int) (*entity.Doctor, error) {
	return r.findOne(db.Where("doctors.user_id = ?", userID))
}

func (r *doctorRepository) findOne(query *gorm.DB) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := query.
		Preload("User").
		Preload("Specialization").
		Preload("Department").
		Preload("Calendar").
		First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.
		Joins("JOIN users ON users.id = doctors.user_id").
		Preload("User").
		Preload("Specialization").
		Preload("Department").
		Order("users.last_name ASC, users.first_name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit(clause.Associations).Save(doctor).Error
}

func (r *doctorRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Doctor{})
	return result.RowsAffected, result.Error
}

// Calendars

type calendarRepository struct{}

func NewCalendarRepository() domainRepo.CalendarRepository {
	return &calendarRepository{}
}

func (r *calendarRepository) Create(db *gorm.DB, calendar *entity.DoctorCalendar) error {
	return db.Omit(clause.Associations).Create(calendar).Error
}

func (r *calendarRepository) FindByID(db *gorm.DB, id int) (*entity.DoctorCalendar, error) {
	var calendar entity.DoctorCalendar
	err := db.Preload("Doctor").Where("id = ?", id).First(&calendar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &calendar, nil
}

func (r *calendarRepository) FindByDoctorID(db *gorm.DB, doctorID int) (*entity.DoctorCalendar, error) {
	var calendar entity.DoctorCalendar
	err := db.Where("doctor_id = ?", doctorID).First(&calendar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &calendar, nil
}

func (r *calendarRepository) UpdateAvailability(db *gorm.DB, id int, availability bool) error {
	return db.Model(&entity.DoctorCalendar{}).
		Where("id = ?", id).
		Update("availability", availability).Error
}
