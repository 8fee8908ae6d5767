package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	releaseapimodels "cultivation-backend/models/api/release"
)

// GenerateReleaseCertificate формирует сертификат выпуска партии в оборот.
// Вызывается только для выпуска в статусе released.
func GenerateReleaseCertificate(facilityName, licenseNumber string, view releaseapimodels.ReleaseView) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GenerateReleaseCertificate panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "static/font/")
	pdf.AddPage()
	pdf.AddUTF8Font("Arial", "", "Arial.ttf")
	pdf.AddUTF8Font("Arial", "B", "Arial Bold.ttf")
	pdf.SetFont("Arial", "B", 16)
	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	pdf.CellFormat(0, 10, "Сертификат выпуска партии", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Площадка: %v", facilityName), "", 1, "C", false, 0, "")
	if licenseNumber != "" {
		pdf.CellFormat(0, 8, fmt.Sprintf("Лицензия: %v", licenseNumber), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	_, lineHt := pdf.GetFontSize()
	html := pdf.HTMLBasicNew()
	htmlStr := fmt.Sprintf("<b>Номер выпуска:</b> %v<br>", view.ReleaseNumber) +
		fmt.Sprintf("<b>Партия:</b> %v<br>", view.BatchNumber) +
		fmt.Sprintf("<b>Тип продукции:</b> %v<br>", view.ProductType) +
		fmt.Sprintf("<b>Статус:</b> %v<br>", view.StatusName)
	if view.FinalizedAt != nil {
		htmlStr += fmt.Sprintf("<b>Дата выпуска:</b> %v<br>", view.FinalizedAt.Format("02.01.2006 15:04"))
	}
	if view.FinalizedByName != "" {
		htmlStr += fmt.Sprintf("<b>Выпуск оформил:</b> %v<br>", view.FinalizedByName)
	}
	html.Write(lineHt, htmlStr)
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Контрольные точки", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, checkpoint := range view.Checkpoints {
		line := fmt.Sprintf("%v. %v - %v", checkpoint.Seq, checkpoint.Name, checkpoint.StatusName)
		if checkpoint.InspectorName != "" {
			line += fmt.Sprintf(" (%v)", checkpoint.InspectorName)
		}
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Согласование", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, approval := range view.Approvals {
		line := fmt.Sprintf("%v. %v - %v", approval.OrderSequence, approval.Level, approval.StatusName)
		if approval.ApproverName != "" {
			line += fmt.Sprintf(", %v", approval.ApproverName)
		}
		if approval.RespondedAt != nil {
			line += fmt.Sprintf(", %v", approval.RespondedAt.Format("02.01.2006"))
		}
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}

	buf := new(bytes.Buffer)
	if err = pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
