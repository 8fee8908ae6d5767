package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"cultivation-backend/controllers"
	releasetemplatehandler "cultivation-backend/lib/release-template"
	"cultivation-backend/middleware"
	apimodels "cultivation-backend/models/api"
	templateapimodels "cultivation-backend/models/api/template"
)

type releaseTemplateApiController struct {
	controllers.BaseAPIController
}

func InitReleaseTemplateApiRouters(app *fiber.App) {
	controller := releaseTemplateApiController{}
	app.Route("release_template", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get("list", controller.list)
		router.Get(":id", controller.getByID)
		router.Delete(":id", controller.deactivate)
	})
}

// @Summary Создание шаблона выпуска
// @Tags Шаблоны выпуска
// @Description Создание шаблона контрольных точек и цепочки согласования
// @Param   Authorization		header	string								true	"Authorization token"
// @Param	body 				body	templateapimodels.TemplateData		true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release_template [post]
func (c *releaseTemplateApiController) create(ctx *fiber.Ctx) error {
	var payload templateapimodels.TemplateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	id, err := releasetemplatehandler.Instance.Create(facilityID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания шаблона выпуска")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список шаблонов выпуска
// @Tags Шаблоны выпуска
// @Description Список шаблонов площадки
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]templateapimodels.TemplateView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release_template/list [get]
func (c *releaseTemplateApiController) list(ctx *fiber.Ctx) error {
	facilityID := middleware.GetUserFacility(ctx)
	list, err := releasetemplatehandler.Instance.List(facilityID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка шаблонов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Шаблон выпуска
// @Tags Шаблоны выпуска
// @Description Шаблон с контрольными точками и ролями согласования
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=templateapimodels.TemplateView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release_template/{id} [get]
func (c *releaseTemplateApiController) getByID(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	item, err := releasetemplatehandler.Instance.GetByID(facilityID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения шаблона")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(item))
}

// @Summary Деактивация шаблона выпуска
// @Tags Шаблоны выпуска
// @Description Шаблон скрывается из выбора, начатые выпуски не затрагиваются
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release_template/{id} [delete]
func (c *releaseTemplateApiController) deactivate(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	if err = releasetemplatehandler.Instance.Deactivate(facilityID, id); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка деактивации шаблона")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
