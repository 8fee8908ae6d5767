package xlsexport

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	releaseapimodels "cultivation-backend/models/api/release"
)

type Provider interface {
	ExportReleaseRegister(list []releaseapimodels.ReleaseView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var releaseHeaders = []string{"Номер выпуска", "Партия", "Тип продукции", "Статус", "Инициатор", "Дата создания", "Контрольных точек", "Заполнено", "Дата выпуска", "Выпустил"}

func (i impl) ExportReleaseRegister(list []releaseapimodels.ReleaseView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, releaseHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		_, err = writeReleaseData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Реестр выпусков")
	return f.WriteToBuffer()
}

func writeReleaseData(f *excelize.File, sheet string, list []releaseapimodels.ReleaseView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(releaseHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Номер выпуска"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.ReleaseNumber); err != nil {
			return row, err
		}

		// "Партия"
		col++
		if err := writeColumn(f, sheet, col, row, item.BatchNumber); err != nil {
			return row, err
		}

		// "Тип продукции"
		col++
		if err := writeColumn(f, sheet, col, row, item.ProductType); err != nil {
			return row, err
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, item.StatusName); err != nil {
			return row, err
		}

		// "Инициатор"
		col++
		if err := writeColumn(f, sheet, col, row, item.InitiatorName); err != nil {
			return row, err
		}

		// "Дата создания"
		col++
		if err := writeColumn(f, sheet, col, row, item.CreatedAt.Format("02.01.2006")); err != nil {
			return row, err
		}

		// "Контрольных точек"
		col++
		if err := writeColumn(f, sheet, col, row, item.CheckpointsTotal); err != nil {
			return row, err
		}

		// "Заполнено"
		col++
		if err := writeColumn(f, sheet, col, row, item.CheckpointsDone); err != nil {
			return row, err
		}

		// "Дата выпуска"
		col++
		if item.FinalizedAt != nil {
			if err := writeColumn(f, sheet, col, row, item.FinalizedAt.Format("02.01.2006")); err != nil {
				return row, err
			}
		}

		// "Выпустил"
		col++
		if err := writeColumn(f, sheet, col, row, item.FinalizedByName); err != nil {
			return row, err
		}
	}
	return row, nil
}

// имя файла реестра для выгрузки
func RegisterFileName(facilityName string) string {
	return fmt.Sprintf("Реестр выпусков - %v.xlsx", facilityName)
}
