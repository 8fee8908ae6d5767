package compliancestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"cultivation-backend/models"
	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ComplianceEvent) (id string, err error)
	ListPending(limit int) (list []dbmodels.ComplianceEvent, err error)
	MarkForwarded(id string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ComplianceEvent) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) ListPending(limit int) (list []dbmodels.ComplianceEvent, err error) {
	list = []dbmodels.ComplianceEvent{}
	err = i.db.
		Where("status = ?", models.ComplianceEventStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) MarkForwarded(id string) error {
	err := i.db.
		Model(&dbmodels.ComplianceEvent{}).
		Where("id = ?", id).
		Update("status", models.ComplianceEventStatusForwarded).
		Error
	if err != nil {
		return err
	}
	return nil
}
