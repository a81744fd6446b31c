package service

import (
	"fmt"

	"medcare-api/internal/domain/entity"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/sirupsen/logrus"
)

// Resources and actions named in the capability table.
const (
	ResourceUser           = "user"
	ResourceRole           = "role"
	ResourceDepartment     = "department"
	ResourceSpecialization = "specialization"
	ResourceDoctor         = "doctor"
	ResourceCalendar       = "calendar"
	ResourceTimeSlot       = "timeslot"
	ResourceAppointment    = "appointment"
	ResourcePatient        = "patient"
	ResourceAllergy        = "allergy"
	ResourceMedication     = "medication"
	ResourceMedicalRecord  = "medical_record"
	ResourceInsurance      = "insurance"
	ResourceNotification   = "notification"
	ResourceAuditLog       = "audit_log"

	ActionCreate    = "create"
	ActionRead      = "read"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionManage    = "manage"
	ActionManageAny = "manage_any"
)

const policyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// capabilities is the role -> (resource, action) table. Ownership of a row
// (the patient or doctor bound to it) is checked by the usecases.
var capabilities = map[entity.RoleName][][2]string{
	entity.RoleAdmin: {
		{"*", "*"},
	},
	entity.RoleDoctor: {
		{ResourceTimeSlot, ActionCreate},
		{ResourceTimeSlot, ActionUpdate},
		{ResourceTimeSlot, ActionDelete},
		{ResourceCalendar, ActionManage},
		{ResourceDoctor, ActionUpdate},
		{ResourceAppointment, ActionCreate},
		{ResourceAppointment, ActionRead},
		{ResourceAppointment, ActionUpdate},
		{ResourcePatient, ActionRead},
		{ResourceAllergy, ActionCreate},
		{ResourceMedication, ActionCreate},
		{ResourceMedicalRecord, ActionCreate},
		{ResourceMedicalRecord, ActionRead},
		{ResourceMedicalRecord, ActionUpdate},
		{ResourceNotification, ActionCreate},
	},
	entity.RolePatient: {
		{ResourceAppointment, ActionCreate},
		{ResourceAppointment, ActionRead},
		{ResourceAppointment, ActionUpdate},
		{ResourceAllergy, ActionCreate},
		{ResourceMedicalRecord, ActionRead},
	},
}

// AccessPolicy is the single place role capabilities are decided.
type AccessPolicy struct {
	enforcer *casbin.Enforcer
	log      *logrus.Logger
}

func NewAccessPolicy(log *logrus.Logger) (*AccessPolicy, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse policy model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create enforcer: %w", err)
	}

	var rules [][]string
	for role, caps := range capabilities {
		for _, c := range caps {
			rules = append(rules, []string{string(role), c[0], c[1]})
		}
	}
	if _, err := enforcer.AddPolicies(rules); err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	return &AccessPolicy{enforcer: enforcer, log: log}, nil
}

// Can reports whether role holds action on resource. Unknown roles hold nothing.
func (p *AccessPolicy) Can(role entity.RoleName, resource, action string) bool {
	if !role.Valid() {
		return false
	}
	ok, err := p.enforcer.Enforce(string(role), resource, action)
	if err != nil {
		p.log.Warnf("Failed to evaluate policy for %s %s:%s: %+v", role, resource, action, err)
		return false
	}
	return ok
}

// CanManageAny reports whether role may act on rows it does not own.
func (p *AccessPolicy) CanManageAny(role entity.RoleName, resource string) bool {
	return p.Can(role, resource, ActionManageAny)
}
