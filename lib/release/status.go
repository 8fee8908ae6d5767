package release

import (
	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

// deriveStatus вычисляет статус выпуска по текущему состоянию контрольных
// точек и цепочки согласования. Терминальные статусы (released, rejected)
// здесь не назначаются повторно, это зона ответственности вызывающего.
func deriveStatus(checkpoints []dbmodels.CheckpointResult, approvals []dbmodels.ReleaseApproval) models.ReleaseStatus {
	for _, approval := range approvals {
		if approval.Status == models.ApprovalStatusRejected {
			return models.ReleaseStatusRejected
		}
	}

	anyCompleted := false
	mandatoryFailed := false
	allMandatoryDone := true
	for _, cp := range checkpoints {
		if cp.Status != models.CheckpointStatusPending {
			anyCompleted = true
		}
		if !cp.Mandatory {
			continue
		}
		switch cp.Status {
		case models.CheckpointStatusFailed:
			mandatoryFailed = true
		case models.CheckpointStatusPending:
			allMandatoryDone = false
		}
	}
	if mandatoryFailed {
		return models.ReleaseStatusOnHold
	}
	if allMandatoryDone && len(checkpoints) != 0 {
		// пустая цепочка согласования трактуется как отсутствие требования
		allApproved := true
		for _, approval := range approvals {
			if approval.Status != models.ApprovalStatusApproved {
				allApproved = false
				break
			}
		}
		if allApproved {
			return models.ReleaseStatusApproved
		}
		return models.ReleaseStatusAwaitingApproval
	}
	if anyCompleted {
		return models.ReleaseStatusInProgress
	}
	return models.ReleaseStatusPending
}
