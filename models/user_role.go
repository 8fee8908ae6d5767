package models

type UserRole string

const (
	FacilityAdminRole     UserRole = "FACILITY_ADMIN"
	QaInspectorRole       UserRole = "QA_INSPECTOR"
	QaManagerRole         UserRole = "QA_MANAGER"
	ComplianceOfficerRole UserRole = "COMPLIANCE_OFFICER"
	FacilityDirectorRole  UserRole = "FACILITY_DIRECTOR"
)

var roleHumanName = map[UserRole]string{
	FacilityAdminRole:     "Администратор площадки",
	QaInspectorRole:       "Инспектор ОКК",
	QaManagerRole:         "Руководитель ОКК",
	ComplianceOfficerRole: "Специалист по комплаенсу",
	FacilityDirectorRole:  "Директор площадки",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsFacilityAdmin() bool {
	return r == FacilityAdminRole
}

const SystemUser = "Система"

type UserStatus string

const (
	FacilityWorkingStatus   UserStatus = "WORKING"
	FacilityDismissedStatus UserStatus = "DISMISSED"
)

var userStatusHumanName = map[UserStatus]string{
	FacilityWorkingStatus:   "Работает",
	FacilityDismissedStatus: "Уволен",
}

func (r UserStatus) ToHuman() string {
	if human, exist := userStatusHumanName[r]; exist {
		return human
	}
	return string(r)
}
