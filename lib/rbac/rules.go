package rbac

import (
	"cultivation-backend/models"
)

var (
	AllRoles = []models.UserRole{
		models.FacilityAdminRole,
		models.QaInspectorRole,
		models.QaManagerRole,
		models.ComplianceOfficerRole,
		models.FacilityDirectorRole,
	}
	AdminRoleSet     = []models.UserRole{models.FacilityAdminRole}
	InspectorRoleSet = []models.UserRole{models.FacilityAdminRole, models.QaInspectorRole, models.QaManagerRole}
	ApproverRoleSet  = []models.UserRole{models.FacilityAdminRole, models.QaManagerRole, models.ComplianceOfficerRole, models.FacilityDirectorRole}
	ManagerRoleSet   = []models.UserRole{models.FacilityAdminRole, models.QaManagerRole}
	ReportRoleSet    = []models.UserRole{models.FacilityAdminRole, models.QaManagerRole, models.ComplianceOfficerRole, models.FacilityDirectorRole}
)

func (i *impl) initRules() {
	i.addUsersRbac()
	i.addReleaseRbac()
	i.addCheckpointRbac()
	i.addApprovalRbac()
	i.addTemplateRbac()
	i.addDocumentRbac()
	i.addReportRbac()
}

func (i *impl) addUsersRbac() {
	//VIEW
	i.RegisterRule(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users/list [get]", nil)
	//MANAGE
	i.RegisterRule(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users [post]", nil)
}

func (i *impl) addReleaseRbac() {
	//VIEW
	i.RegisterRule(models.ReleaseModule, models.ViewPermission, AllRoles, "/api/v1/release/list [post]", nil)
	i.RegisterRule(models.ReleaseModule, models.ViewPermission, AllRoles, "/api/v1/release/{id} [get]", nil)
	//CREATE
	i.RegisterRule(models.ReleaseModule, models.CreatePermission, InspectorRoleSet, "/api/v1/release [post]", nil)
	//FLOW
	i.RegisterRule(models.ReleaseModule, models.FlowPermission, ManagerRoleSet, "/api/v1/release/{id}/finalize [put]", nil)
}

func (i *impl) addCheckpointRbac() {
	//VIEW
	i.RegisterRule(models.CheckpointModule, models.ViewPermission, AllRoles, "/api/v1/release/{id}/checkpoints [get]", nil)
	//FLOW
	i.RegisterRule(models.CheckpointModule, models.FlowPermission, InspectorRoleSet, "/api/v1/release/{id}/checkpoints/{checkpointId}/complete [put]", nil)
}

func (i *impl) addApprovalRbac() {
	//VIEW
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/release/{id}/approvals [get]", nil)
	//FLOW - соответствие роли этапу проверяет обработчик согласования
	i.RegisterRule(models.ApprovalModule, models.FlowPermission, ApproverRoleSet, "/api/v1/release/{id}/approvals/{approvalId}/process [put]", nil)
}

func (i *impl) addTemplateRbac() {
	//VIEW
	i.RegisterRule(models.TemplateModule, models.ViewPermission, AllRoles, "/api/v1/release_template/list [get]", nil)
	i.RegisterRule(models.TemplateModule, models.ViewPermission, AllRoles, "/api/v1/release_template/{id} [get]", nil)
	//MANAGE
	i.RegisterRule(models.TemplateModule, models.ManagePermission, ManagerRoleSet, "/api/v1/release_template [post]", nil)
	i.RegisterRule(models.TemplateModule, models.ManagePermission, ManagerRoleSet, "/api/v1/release_template/{id} [delete]", nil)
}

func (i *impl) addDocumentRbac() {
	//VIEW
	i.RegisterRule(models.DocumentModule, models.ViewPermission, AllRoles, "/api/v1/release/{id}/documents [get]", nil)
	i.RegisterRule(models.DocumentModule, models.ViewPermission, AllRoles, "/api/v1/release/{id}/documents/{documentId} [get]", nil)
	//FILES
	i.RegisterRule(models.DocumentModule, models.FilesPermission, InspectorRoleSet, "/api/v1/release/{id}/documents [post]", nil)
}

func (i *impl) addReportRbac() {
	i.RegisterRule(models.ReportModule, models.ViewPermission, ReportRoleSet, "/api/v1/release/statistics [post]", nil)
	i.RegisterRule(models.ReportModule, models.ViewPermission, ReportRoleSet, "/api/v1/release/export [post]", nil)
	i.RegisterRule(models.ReportModule, models.ViewPermission, ReportRoleSet, "/api/v1/release/{id}/certificate [get]", nil)
}
