package releasetemplatehandler

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"cultivation-backend/db"
	releasetemplatestore "cultivation-backend/lib/release-template/store"
	"cultivation-backend/models"
	templateapimodels "cultivation-backend/models/api/template"
	dbmodels "cultivation-backend/models/db"
)

type Provider interface {
	Create(facilityID string, data templateapimodels.TemplateData) (id string, err error)
	GetByID(facilityID, id string) (item templateapimodels.TemplateView, err error)
	GetRec(facilityID, id string) (rec *dbmodels.ReleaseTemplate, err error)
	List(facilityID string) (list []templateapimodels.TemplateView, err error)
	Deactivate(facilityID, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: releasetemplatestore.NewInstance(db.DB),
	}
}

type impl struct {
	store releasetemplatestore.Provider
}

func (i impl) Create(facilityID string, data templateapimodels.TemplateData) (id string, err error) {
	logger := log.WithField("facility_id", facilityID)
	rec := dbmodels.ReleaseTemplate{
		BaseFacilityModel: dbmodels.BaseFacilityModel{
			FacilityID: facilityID,
		},
		Name:        data.Name,
		ProductType: data.ProductType,
		IsActive:    true,
	}
	for seq, checkpoint := range data.Checkpoints {
		rec.Checkpoints = append(rec.Checkpoints, dbmodels.TemplateCheckpoint{
			BaseFacilityModel: dbmodels.BaseFacilityModel{
				FacilityID: facilityID,
			},
			Seq:         seq + 1,
			Name:        checkpoint.Name,
			Description: checkpoint.Description,
			Mandatory:   checkpoint.Mandatory,
		})
	}
	for seq, role := range data.Roles {
		label := role.Label
		if label == "" {
			label = role.Role.ToHuman()
		}
		rec.Roles = append(rec.Roles, dbmodels.TemplateRole{
			BaseFacilityModel: dbmodels.BaseFacilityModel{
				FacilityID: facilityID,
			},
			Seq:   seq + 1,
			Role:  role.Role,
			Label: label,
		})
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("ошибка создания шаблона выпуска")
		return "", err
	}
	logger.WithField("rec_id", id).Info("создан шаблон выпуска")
	return id, nil
}

func (i impl) GetByID(facilityID, id string) (templateapimodels.TemplateView, error) {
	rec, err := i.GetRec(facilityID, id)
	if err != nil {
		return templateapimodels.TemplateView{}, err
	}
	return templateapimodels.TemplateConvert(*rec), nil
}

func (i impl) GetRec(facilityID, id string) (*dbmodels.ReleaseTemplate, error) {
	rec, err := i.store.GetByID(facilityID, id)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения шаблона выпуска")
	}
	if rec == nil {
		return nil, errors.Wrap(models.ErrNotFound, "шаблон выпуска не найден")
	}
	return rec, nil
}

func (i impl) List(facilityID string) ([]templateapimodels.TemplateView, error) {
	recList, err := i.store.List(facilityID)
	if err != nil {
		return nil, err
	}
	result := make([]templateapimodels.TemplateView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, templateapimodels.TemplateConvert(rec))
	}
	return result, nil
}

// Deactivate скрывает шаблон из выбора для новых выпусков. Шаблон, на который
// уже ссылается выпуск, не удаляется и не изменяется.
func (i impl) Deactivate(facilityID, id string) error {
	logger := log.
		WithField("facility_id", facilityID).
		WithField("rec_id", id)
	_, err := i.GetRec(facilityID, id)
	if err != nil {
		return err
	}
	updMap := map[string]interface{}{
		"is_active": false,
	}
	err = i.store.Update(facilityID, id, updMap)
	if err != nil {
		logger.WithError(err).Error("ошибка деактивации шаблона выпуска")
		return err
	}
	logger.Info("шаблон выпуска деактивирован")
	return nil
}
