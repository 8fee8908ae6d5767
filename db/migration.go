package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "cultivation-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	migrations := []struct {
		name  string
		model any
	}{
		{"Facility", &dbmodels.Facility{}},
		{"FacilityUser", &dbmodels.FacilityUser{}},
		{"ProcessingBatch", &dbmodels.ProcessingBatch{}},
		{"ReleaseTemplate", &dbmodels.ReleaseTemplate{}},
		{"TemplateCheckpoint", &dbmodels.TemplateCheckpoint{}},
		{"TemplateRole", &dbmodels.TemplateRole{}},
		{"BatchRelease", &dbmodels.BatchRelease{}},
		{"CheckpointResult", &dbmodels.CheckpointResult{}},
		{"ReleaseApproval", &dbmodels.ReleaseApproval{}},
		{"ReleaseDocument", &dbmodels.ReleaseDocument{}},
		{"ReleaseAuditLog", &dbmodels.ReleaseAuditLog{}},
		{"ComplianceEvent", &dbmodels.ComplianceEvent{}},
		{"ReleaseNumberCounter", &dbmodels.ReleaseNumberCounter{}},
	}
	for _, migration := range migrations {
		if err := DB.AutoMigrate(migration.model); err != nil {
			return errors.Wrapf(err, "ошибка создания структуры %v", migration.name)
		}
	}
	log.Info("Миграция прошла успешно")
	return nil
}
