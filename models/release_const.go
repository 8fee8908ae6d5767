package models

type ReleaseStatus string

const (
	ReleaseStatusPending          ReleaseStatus = "pending"
	ReleaseStatusInProgress       ReleaseStatus = "in_progress"
	ReleaseStatusOnHold           ReleaseStatus = "on_hold"
	ReleaseStatusAwaitingApproval ReleaseStatus = "awaiting_approval"
	ReleaseStatusApproved         ReleaseStatus = "approved"
	ReleaseStatusReleased         ReleaseStatus = "released"
	ReleaseStatusRejected         ReleaseStatus = "rejected"
)

var releaseStatusHumanName = map[ReleaseStatus]string{
	ReleaseStatusPending:          "Ожидает контроля",
	ReleaseStatusInProgress:       "Контроль выполняется",
	ReleaseStatusOnHold:           "Приостановлен",
	ReleaseStatusAwaitingApproval: "На согласовании",
	ReleaseStatusApproved:         "Согласован",
	ReleaseStatusReleased:         "Выпущен",
	ReleaseStatusRejected:         "Отклонен",
}

func (s ReleaseStatus) ToHuman() string {
	if human, exist := releaseStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// IsTerminal — после выпуска или отклонения запись становится историей, доступной только для чтения
func (s ReleaseStatus) IsTerminal() bool {
	return s == ReleaseStatusReleased || s == ReleaseStatusRejected
}

// AllowCheckpointComplete — контрольная точка заполняется пока приемка не завершена
func (s ReleaseStatus) AllowCheckpointComplete() bool {
	return !s.IsTerminal()
}

// AllowApprovalProcessing — согласование доступно только после прохождения всех обязательных контрольных точек
func (s ReleaseStatus) AllowApprovalProcessing() bool {
	return s == ReleaseStatusAwaitingApproval
}

// AllowFinalize — выпуск партии возможен только из статуса "согласован"
func (s ReleaseStatus) AllowFinalize() bool {
	return s == ReleaseStatusApproved
}

type CheckpointStatus string

const (
	CheckpointStatusPending CheckpointStatus = "pending"
	CheckpointStatusPassed  CheckpointStatus = "passed"
	CheckpointStatusFailed  CheckpointStatus = "failed"
)

var checkpointStatusHumanName = map[CheckpointStatus]string{
	CheckpointStatusPending: "Ожидает проверки",
	CheckpointStatusPassed:  "Пройдена",
	CheckpointStatusFailed:  "Не пройдена",
}

func (s CheckpointStatus) ToHuman() string {
	if human, exist := checkpointStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

var approvalStatusHumanName = map[ApprovalStatus]string{
	ApprovalStatusPending:  "Ожидает решения",
	ApprovalStatusApproved: "Согласовано",
	ApprovalStatusRejected: "Отклонено",
}

func (s ApprovalStatus) ToHuman() string {
	if human, exist := approvalStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

type AuditAction string

const (
	AuditActionReleaseInitiated    AuditAction = "release_initiated"
	AuditActionCheckpointCompleted AuditAction = "checkpoint_completed"
	AuditActionApprovalApproved    AuditAction = "approval_approved"
	AuditActionApprovalRejected    AuditAction = "approval_rejected"
	AuditActionReleaseFinalized    AuditAction = "release_finalized"
)

type ComplianceEventType string

const (
	ComplianceEventBatchReleased ComplianceEventType = "batch_released"
)

type ComplianceEventStatus string

const (
	ComplianceEventStatusPending   ComplianceEventStatus = "pending"
	ComplianceEventStatusForwarded ComplianceEventStatus = "forwarded"
)

type NotifyEventCode string

const (
	NotifyReleaseInitiated    NotifyEventCode = "RELEASE_INITIATED"
	NotifyCheckpointCompleted NotifyEventCode = "CHECKPOINT_COMPLETED"
	NotifyReleaseOnHold       NotifyEventCode = "RELEASE_ON_HOLD"
	NotifyApprovalRequired    NotifyEventCode = "APPROVAL_REQUIRED"
	NotifyApprovalDecision    NotifyEventCode = "APPROVAL_DECISION"
	NotifyReleaseReleased     NotifyEventCode = "RELEASE_RELEASED"
	NotifyReleaseRejected     NotifyEventCode = "RELEASE_REJECTED"
)

type BatchStatus string

const (
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusCompleted  BatchStatus = "completed"
	BatchStatusReleased   BatchStatus = "released"
)
