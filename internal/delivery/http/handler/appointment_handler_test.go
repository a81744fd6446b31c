package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"medcare-api/internal/delivery/http/middleware"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/infrastructure/database"
	gormrepo "medcare-api/internal/repository"
	"medcare-api/internal/service"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/jwt"
	"medcare-api/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type bookingFixture struct {
	db          *gorm.DB
	handler     *AppointmentHandler
	patientUser *entity.User
	slot        *entity.TimeSlot
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	log, _ := test.NewNullLogger()

	db, err := database.NewSQLiteConnection("", false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	policy, err := service.NewAccessPolicy(log)
	require.NoError(t, err)
	registry := service.NewConnectionRegistry("notifications", log)
	t.Cleanup(registry.Close)

	userRepo := gormrepo.NewUserRepository()
	department := &entity.Department{DepartmentName: "Neurology"}
	require.NoError(t, db.Create(department).Error)
	specialization := &entity.Specialization{SpecName: "Neurologist"}
	require.NoError(t, db.Create(specialization).Error)

	doctorUser := &entity.User{RoleID: entity.RoleIDDoctor, Email: "neuro@example.com", Password: "x", FirstName: "Ada", LastName: "Doc"}
	require.NoError(t, userRepo.Create(db, doctorUser))
	doctor := &entity.Doctor{UserID: doctorUser.ID, SpecID: specialization.ID, DepartmentID: department.ID}
	require.NoError(t, gormrepo.NewDoctorRepository().Create(db, doctor))
	calendar := &entity.DoctorCalendar{DoctorID: doctor.ID, Availability: true}
	require.NoError(t, gormrepo.NewCalendarRepository().Create(db, calendar))

	start := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	slot := &entity.TimeSlot{CalendarID: calendar.ID, StartTime: start, EndTime: start.Add(30 * time.Minute), IsAvailable: true}
	require.NoError(t, gormrepo.NewTimeSlotRepository().Create(db, slot))

	patientUser := &entity.User{RoleID: entity.RoleIDPatient, Email: "pat@example.com", Password: "x", FirstName: "Pat", LastName: "Ient"}
	require.NoError(t, userRepo.Create(db, patientUser))
	require.NoError(t, gormrepo.NewPatientRepository().Create(db, &entity.Patient{UserID: patientUser.ID, Gender: "Male"}))

	appointmentUsecase := usecase.NewAppointmentUsecase(
		db, log,
		gormrepo.NewAppointmentRepository(),
		gormrepo.NewTimeSlotRepository(),
		gormrepo.NewPatientRepository(),
		gormrepo.NewDoctorRepository(),
		policy,
		service.NewAuditService(log, gormrepo.NewAuditLogRepository()),
		service.NewNotificationService(db, log, gormrepo.NewNotificationRepository(), registry),
	)

	return &bookingFixture{
		db:          db,
		handler:     NewAppointmentHandler(appointmentUsecase, validator.NewValidator()),
		patientUser: patientUser,
		slot:        slot,
	}
}

func asUser(req *http.Request, user *entity.User) *http.Request {
	claims := &jwt.Claims{UserID: user.ID, RoleID: user.RoleID, TokenType: jwt.AccessToken}
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func (f *bookingFixture) book(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body)), f.patientUser)
	rec := httptest.NewRecorder()
	f.handler.BookAppointment(rec, req)
	return rec
}

func TestBookAppointmentHandler(t *testing.T) {
	f := newBookingFixture(t)

	rec := f.book(t, `{"slot_id":`+strconv.Itoa(f.slot.ID)+`,"notes":"migraine"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	assert.EqualValues(t, f.slot.ID, data["slot_id"])
	assert.Equal(t, string(entity.AppointmentStatusScheduled), data["status"])

	rec = f.book(t, `{"slot_id":`+strconv.Itoa(f.slot.ID)+`}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBookAppointmentHandlerRejectsBadInput(t *testing.T) {
	f := newBookingFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.book(t, `{"slot_id":`).Code)
	assert.Equal(t, http.StatusBadRequest, f.book(t, `{"slot_id":0}`).Code)
	assert.Equal(t, http.StatusNotFound, f.book(t, `{"slot_id":9999}`).Code)

	rec := httptest.NewRecorder()
	f.handler.BookAppointment(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCancelAppointmentHandlerFreesSlot(t *testing.T) {
	f := newBookingFixture(t)

	rec := f.book(t, `{"slot_id":`+strconv.Itoa(f.slot.ID)+`}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appointmentID := int(decodeData(t, rec)["id"].(float64))

	req := asUser(httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/"+strconv.Itoa(appointmentID), nil), f.patientUser)
	req = mux.SetURLVars(req, map[string]string{"id": strconv.Itoa(appointmentID)})
	rec = httptest.NewRecorder()
	f.handler.CancelAppointment(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, string(entity.AppointmentStatusCancelled), decodeData(t, rec)["status"])

	var slot entity.TimeSlot
	require.NoError(t, f.db.First(&slot, f.slot.ID).Error)
	assert.True(t, slot.IsAvailable)

	req = asUser(httptest.NewRequest(http.MethodDelete, "/api/v1/appointments/abc", nil), f.patientUser)
	req = mux.SetURLVars(req, map[string]string{"id": "abc"})
	rec = httptest.NewRecorder()
	f.handler.CancelAppointment(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
