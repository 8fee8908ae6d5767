package models

type RbacFunc func(facilityID, userID string, role UserRole, path string) bool

type Module string

const (
	UsersModule      Module = "USERS"
	ReleaseModule    Module = "RELEASE"
	CheckpointModule Module = "CHECKPOINT"
	ApprovalModule   Module = "APPROVAL"
	TemplateModule   Module = "TEMPLATE"
	DocumentModule   Module = "DOCUMENT"
	ReportModule     Module = "REPORT"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	EditPermission   Permission = "EDIT"
	ViewPermission   Permission = "VIEW"
	ManagePermission Permission = "MANAGE"
	FlowPermission   Permission = "FLOW"
	FilesPermission  Permission = "FILES"
)
