package apiv1

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"cultivation-backend/controllers"
	pdfexport "cultivation-backend/lib/export/pdf"
	xlsexport "cultivation-backend/lib/export/xls"
	facilitystore "cultivation-backend/lib/facility/store"
	"cultivation-backend/lib/release"
	"cultivation-backend/db"
	"cultivation-backend/middleware"
	"cultivation-backend/models"
	apimodels "cultivation-backend/models/api"
	releaseapimodels "cultivation-backend/models/api/release"
)

type releaseApiController struct {
	controllers.BaseAPIController
}

func InitReleaseApiRouters(app *fiber.App) {
	controller := releaseApiController{}
	app.Route("release", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Post("list", controller.list)
		router.Post("statistics", controller.statistics)
		router.Post("export", controller.export)
		router.Get(":id", controller.getByID)
		router.Put(":id/finalize", controller.finalize)
		router.Get(":id/certificate", controller.certificate)
	})
}

// @Summary Создание выпуска
// @Tags Выпуск партий
// @Description Создание выпуска по производственной партии и шаблону
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body 				body	releaseapimodels.ReleaseCreateData		true	"request body"
// @Success 200 {object} apimodels.Response{data=releaseapimodels.ReleaseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release [post]
func (c *releaseApiController) create(ctx *fiber.Ctx) error {
	var payload releaseapimodels.ReleaseCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	userID := middleware.GetUserID(ctx)
	id, err := release.Instance.Create(facilityID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания выпуска")
	}
	result, err := release.Instance.GetByID(facilityID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения выпуска")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Карточка выпуска
// @Tags Выпуск партий
// @Description Выпуск с контрольными точками, согласованием, документами и журналом аудита
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=releaseapimodels.ReleaseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/{id} [get]
func (c *releaseApiController) getByID(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	result, err := release.Instance.GetByID(facilityID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения выпуска")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Список выпусков
// @Tags Выпуск партий
// @Description Список выпусков с фильтрацией и пагинацией
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	releaseapimodels.ReleaseFilter		true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]releaseapimodels.ReleaseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/list [post]
func (c *releaseApiController) list(ctx *fiber.Ctx) error {
	var payload releaseapimodels.ReleaseFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	list, rowCount, err := release.Instance.List(facilityID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка выпусков")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Статистика выпусков
// @Tags Выпуск партий
// @Description Количество выпусков по статусам и среднее время до выпуска
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	releaseapimodels.StatisticsFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=releaseapimodels.StatisticsView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/statistics [post]
func (c *releaseApiController) statistics(ctx *fiber.Ctx) error {
	var payload releaseapimodels.StatisticsFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	stat, err := release.Instance.Statistics(facilityID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка расчета статистики")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(stat))
}

// @Summary Выпуск партии в оборот
// @Tags Выпуск партий
// @Description Финализация согласованного выпуска
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body 				body	releaseapimodels.ReleaseFinalizeData	true	"request body"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=releaseapimodels.ReleaseView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/{id}/finalize [put]
func (c *releaseApiController) finalize(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload releaseapimodels.ReleaseFinalizeData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	userID := middleware.GetUserID(ctx)
	if err = release.Instance.Finalize(ctx.UserContext(), facilityID, userID, id, payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выпуска партии")
	}
	result, err := release.Instance.GetByID(facilityID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения выпуска")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Реестр выпусков в xlsx
// @Tags Выпуск партий
// @Description Выгрузка реестра выпусков с учетом фильтра
// @Param   Authorization		header	string							true	"Authorization token"
// @Param	body 				body	releaseapimodels.ReleaseFilter	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/export [post]
func (c *releaseApiController) export(ctx *fiber.Ctx) error {
	var payload releaseapimodels.ReleaseFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	// выгрузка без пагинации ограничена максимальной страницей
	payload.Limit = 100
	payload.Page = 1
	facilityID := middleware.GetUserFacility(ctx)
	list, _, err := release.Instance.List(facilityID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка выпусков")
	}
	facilityName := facilityID
	facilityRec, err := facilitystore.NewInstance(db.DB).GetByID(facilityID)
	if err == nil && facilityRec != nil {
		facilityName = facilityRec.Name
	}
	buf, err := xlsexport.Instance.ExportReleaseRegister(list)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки реестра")
	}
	fileName := xlsexport.RegisterFileName(facilityName)
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename*=UTF-8''%v`, url.PathEscape(fileName)))
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Сертификат выпуска
// @Tags Выпуск партий
// @Description Сертификат выпуска партии в формате pdf
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/{id}/certificate [get]
func (c *releaseApiController) certificate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	view, err := release.Instance.GetByID(facilityID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения выпуска")
	}
	if view.Status != models.ReleaseStatusReleased {
		err = errors.Wrap(models.ErrInvalidStateTransition, "сертификат доступен только для выпущенной партии")
		return c.SendError(ctx, c.GetLogger(ctx), err, "Сертификат недоступен")
	}
	facilityName := facilityID
	licenseNumber := ""
	facilityRec, err := facilitystore.NewInstance(db.DB).GetByID(facilityID)
	if err == nil && facilityRec != nil {
		facilityName = facilityRec.Name
		licenseNumber = facilityRec.LicenseNumber
	}
	pdfFile, err := pdfexport.GenerateReleaseCertificate(facilityName, licenseNumber, view)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования сертификата")
	}
	fileName := fmt.Sprintf("Сертификат %v.pdf", view.ReleaseNumber)
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename*=UTF-8''%v`, url.PathEscape(fileName)))
	return ctx.Status(fiber.StatusOK).Send(pdfFile)
}
