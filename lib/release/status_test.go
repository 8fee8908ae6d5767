package release

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

func checkpoint(status models.CheckpointStatus, mandatory bool) dbmodels.CheckpointResult {
	return dbmodels.CheckpointResult{
		Mandatory: mandatory,
		Status:    status,
	}
}

func approval(status models.ApprovalStatus) dbmodels.ReleaseApproval {
	return dbmodels.ReleaseApproval{
		Status: status,
	}
}

func TestDeriveStatus(t *testing.T) {
	t.Run("новый выпуск без заполненных точек", func(t *testing.T) {
		status := deriveStatus([]dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPending, true),
			checkpoint(models.CheckpointStatusPending, false),
		}, []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusPending),
		})
		require.Equal(t, models.ReleaseStatusPending, status)
	})

	t.Run("часть точек заполнена", func(t *testing.T) {
		status := deriveStatus([]dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPassed, true),
			checkpoint(models.CheckpointStatusPending, true),
		}, []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusPending),
		})
		require.Equal(t, models.ReleaseStatusInProgress, status)
	})

	t.Run("провал обязательной точки приостанавливает выпуск", func(t *testing.T) {
		status := deriveStatus([]dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusFailed, true),
			checkpoint(models.CheckpointStatusPending, true),
		}, []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusPending),
		})
		require.Equal(t, models.ReleaseStatusOnHold, status)
	})

	t.Run("провал необязательной точки не блокирует", func(t *testing.T) {
		status := deriveStatus([]dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPassed, true),
			checkpoint(models.CheckpointStatusFailed, false),
		}, []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusPending),
		})
		require.Equal(t, models.ReleaseStatusAwaitingApproval, status)
	})

	t.Run("обязательные точки пройдены при незаполненной необязательной", func(t *testing.T) {
		status := deriveStatus([]dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPassed, true),
			checkpoint(models.CheckpointStatusPending, false),
		}, []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusPending),
		})
		require.Equal(t, models.ReleaseStatusAwaitingApproval, status)
	})

	t.Run("пустая цепочка согласования", func(t *testing.T) {
		status := deriveStatus([]dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPassed, true),
		}, nil)
		require.Equal(t, models.ReleaseStatusApproved, status)
	})

	t.Run("часть этапов согласована", func(t *testing.T) {
		status := deriveStatus([]dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPassed, true),
		}, []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusApproved),
			approval(models.ApprovalStatusPending),
		})
		require.Equal(t, models.ReleaseStatusAwaitingApproval, status)
	})

	t.Run("все этапы согласованы", func(t *testing.T) {
		status := deriveStatus([]dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPassed, true),
		}, []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusApproved),
			approval(models.ApprovalStatusApproved),
		})
		require.Equal(t, models.ReleaseStatusApproved, status)
	})

	t.Run("отклонение любого этапа терминально", func(t *testing.T) {
		status := deriveStatus([]dbmodels.CheckpointResult{
			checkpoint(models.CheckpointStatusPending, true),
		}, []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusApproved),
			approval(models.ApprovalStatusRejected),
		})
		require.Equal(t, models.ReleaseStatusRejected, status)
	})

	t.Run("выпуск без контрольных точек остается в ожидании", func(t *testing.T) {
		status := deriveStatus(nil, []dbmodels.ReleaseApproval{
			approval(models.ApprovalStatusPending),
		})
		require.Equal(t, models.ReleaseStatusPending, status)
	})
}
