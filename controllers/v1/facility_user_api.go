package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"cultivation-backend/controllers"
	facilityusershandler "cultivation-backend/lib/facility/users"
	"cultivation-backend/middleware"
	apimodels "cultivation-backend/models/api"
	facilityapimodels "cultivation-backend/models/api/facility"
)

type facilityUserApiController struct {
	controllers.BaseAPIController
}

func InitFacilityUserRouters(app *fiber.App) {
	controller := facilityUserApiController{}
	app.Route("users", func(router fiber.Router) {
		router.Post("", controller.create)
		router.Get("list", controller.list)
	})
}

// @Summary Создание сотрудника
// @Tags Сотрудники площадки
// @Description Создание сотрудника площадки
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body 				body	facilityapimodels.UserCreateData		true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users [post]
func (c *facilityUserApiController) create(ctx *fiber.Ctx) error {
	var payload facilityapimodels.UserCreateData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	id, err := facilityusershandler.Instance.Create(facilityID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания сотрудника")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Список сотрудников
// @Tags Сотрудники площадки
// @Description Список сотрудников площадки
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]facilityapimodels.UserView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/users/list [get]
func (c *facilityUserApiController) list(ctx *fiber.Ctx) error {
	facilityID := middleware.GetUserFacility(ctx)
	list, err := facilityusershandler.Instance.List(facilityID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка сотрудников")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
