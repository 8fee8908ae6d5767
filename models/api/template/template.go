package templateapimodels

import (
	"github.com/pkg/errors"

	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

type TemplateData struct {
	Name        string               `json:"name"`
	ProductType string               `json:"product_type"`
	Checkpoints []CheckpointDefData  `json:"checkpoints"`
	Roles       []ApprovalRoleData   `json:"roles"`
}

type CheckpointDefData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Mandatory   bool   `json:"mandatory"`
}

type ApprovalRoleData struct {
	Role  models.UserRole `json:"role"`
	Label string          `json:"label"`
}

func (r TemplateData) Validate() error {
	if r.Name == "" {
		return errors.Wrap(models.ErrValidation, "не указано название шаблона")
	}
	if len(r.Checkpoints) == 0 {
		return errors.Wrap(models.ErrValidation, "шаблон должен содержать хотя бы одну контрольную точку")
	}
	for _, checkpoint := range r.Checkpoints {
		if checkpoint.Name == "" {
			return errors.Wrap(models.ErrValidation, "не указано название контрольной точки")
		}
	}
	for _, role := range r.Roles {
		if role.Role == "" {
			return errors.Wrap(models.ErrValidation, "не указана роль этапа согласования")
		}
	}
	return nil
}

type TemplateView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	ProductType string              `json:"product_type"`
	IsActive    bool                `json:"is_active"`
	Checkpoints []CheckpointDefView `json:"checkpoints"`
	Roles       []ApprovalRoleView  `json:"roles"`
}

type CheckpointDefView struct {
	ID          string `json:"id"`
	Seq         int    `json:"seq"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Mandatory   bool   `json:"mandatory"`
}

type ApprovalRoleView struct {
	ID       string          `json:"id"`
	Seq      int             `json:"seq"`
	Role     models.UserRole `json:"role"`
	RoleName string          `json:"role_name"`
	Label    string          `json:"label"`
}

func TemplateConvert(rec dbmodels.ReleaseTemplate) TemplateView {
	view := TemplateView{
		ID:          rec.ID,
		Name:        rec.Name,
		ProductType: rec.ProductType,
		IsActive:    rec.IsActive,
	}
	for _, checkpoint := range rec.Checkpoints {
		view.Checkpoints = append(view.Checkpoints, CheckpointDefView{
			ID:          checkpoint.ID,
			Seq:         checkpoint.Seq,
			Name:        checkpoint.Name,
			Description: checkpoint.Description,
			Mandatory:   checkpoint.Mandatory,
		})
	}
	for _, role := range rec.Roles {
		view.Roles = append(view.Roles, ApprovalRoleView{
			ID:       role.ID,
			Seq:      role.Seq,
			Role:     role.Role,
			RoleName: role.Role.ToHuman(),
			Label:    role.Label,
		})
	}
	return view
}
