package usecase

import (
	"fmt"
	"io"
	"testing"

	"medcare-api/internal/domain/entity"
	"medcare-api/internal/infrastructure/database"
	gormrepo "medcare-api/internal/repository"
	"medcare-api/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	log      *logrus.Logger
	policy   *service.AccessPolicy
	audit    service.AuditService
	registry *service.ConnectionRegistry
	notifier *service.NotificationService

	department     *entity.Department
	specialization *entity.Specialization
	admin          entity.Actor
	seq            int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := database.NewSQLiteConnection("", false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	policy, err := service.NewAccessPolicy(log)
	require.NoError(t, err)

	registry := service.NewConnectionRegistry("notifications", log)
	t.Cleanup(registry.Close)

	f := &fixture{
		db:       db,
		log:      log,
		policy:   policy,
		audit:    service.NewAuditService(log, gormrepo.NewAuditLogRepository()),
		registry: registry,
		notifier: service.NewNotificationService(db, log, gormrepo.NewNotificationRepository(), registry),
	}

	f.department = &entity.Department{DepartmentName: "Cardiology"}
	require.NoError(t, db.Create(f.department).Error)
	f.specialization = &entity.Specialization{SpecName: "Cardiologist"}
	require.NoError(t, db.Create(f.specialization).Error)

	adminUser := f.createUser(t, entity.RoleIDAdmin)
	f.admin = entity.Actor{UserID: adminUser.ID, Role: entity.RoleAdmin}

	return f
}

func (f *fixture) createUser(t *testing.T, roleID int) *entity.User {
	t.Helper()
	f.seq++
	user := &entity.User{
		RoleID:    roleID,
		Email:     fmt.Sprintf("user%d@example.com", f.seq),
		Password:  "not-a-real-hash",
		FirstName: fmt.Sprintf("First%d", f.seq),
		LastName:  "Tester",
	}
	require.NoError(t, gormrepo.NewUserRepository().Create(f.db, user))
	return user
}

func (f *fixture) createDoctor(t *testing.T) (entity.Actor, *entity.Doctor) {
	t.Helper()
	user := f.createUser(t, entity.RoleIDDoctor)
	doctor := &entity.Doctor{
		UserID:       user.ID,
		SpecID:       f.specialization.ID,
		DepartmentID: f.department.ID,
		YearsOfExp:   5,
	}
	require.NoError(t, gormrepo.NewDoctorRepository().Create(f.db, doctor))
	return entity.Actor{UserID: user.ID, Role: entity.RoleDoctor}, doctor
}

func (f *fixture) createPatient(t *testing.T) (entity.Actor, *entity.Patient) {
	t.Helper()
	user := f.createUser(t, entity.RoleIDPatient)
	patient := &entity.Patient{UserID: user.ID, Gender: "Female"}
	require.NoError(t, gormrepo.NewPatientRepository().Create(f.db, patient))
	return entity.Actor{UserID: user.ID, Role: entity.RolePatient}, patient
}

func (f *fixture) timeSlotUsecase() TimeSlotUsecase {
	return NewTimeSlotUsecase(
		f.db, f.log,
		gormrepo.NewTimeSlotRepository(),
		gormrepo.NewCalendarRepository(),
		gormrepo.NewDoctorRepository(),
		gormrepo.NewAppointmentRepository(),
		f.policy, f.audit,
	)
}

func (f *fixture) appointmentUsecase() AppointmentUsecase {
	return NewAppointmentUsecase(
		f.db, f.log,
		gormrepo.NewAppointmentRepository(),
		gormrepo.NewTimeSlotRepository(),
		gormrepo.NewPatientRepository(),
		gormrepo.NewDoctorRepository(),
		f.policy, f.audit, f.notifier,
	)
}

func (f *fixture) patientUsecase() PatientUsecase {
	return NewPatientUsecase(
		f.db, f.log,
		gormrepo.NewUserRepository(),
		gormrepo.NewPatientRepository(),
		gormrepo.NewPatientAllergyRepository(),
		gormrepo.NewPatientMedicationRepository(),
		gormrepo.NewInsuranceRepository(),
		f.policy, f.audit, f.notifier,
	)
}

func (f *fixture) notificationUsecase() NotificationUsecase {
	return NewNotificationUsecase(
		f.db, f.log,
		gormrepo.NewNotificationRepository(),
		gormrepo.NewUserRepository(),
		f.policy, f.notifier,
	)
}

func (f *fixture) medicalRecordUsecase() MedicalRecordUsecase {
	return NewMedicalRecordUsecase(
		f.db, f.log,
		gormrepo.NewMedicalRecordRepository(),
		gormrepo.NewPatientRepository(),
		gormrepo.NewDoctorRepository(),
		gormrepo.NewAppointmentRepository(),
		f.policy, f.audit,
	)
}

func (f *fixture) insuranceUsecase() InsuranceUsecase {
	return NewInsuranceUsecase(
		f.db, f.log,
		gormrepo.NewInsuranceRepository(),
		gormrepo.NewPatientRepository(),
		f.policy, f.audit,
	)
}

func (f *fixture) slot(t *testing.T, id int) *entity.TimeSlot {
	t.Helper()
	slot, err := gormrepo.NewTimeSlotRepository().FindByID(f.db, id)
	require.NoError(t, err)
	require.NotNil(t, slot)
	return slot
}

func (f *fixture) countAudit(t *testing.T, event string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&entity.AuditLog{}).Where("event_type = ?", event).Count(&count).Error)
	return count
}
