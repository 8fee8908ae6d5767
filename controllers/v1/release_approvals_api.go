package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"cultivation-backend/controllers"
	releaseapprovalhandler "cultivation-backend/lib/release-approval"
	"cultivation-backend/middleware"
	apimodels "cultivation-backend/models/api"
	releaseapimodels "cultivation-backend/models/api/release"
)

type releaseApprovalApiController struct {
	controllers.BaseAPIController
}

func InitReleaseApprovalApiRouters(app *fiber.App) {
	controller := releaseApprovalApiController{}
	app.Route("release/:id/approvals", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Put(":approvalId/process", controller.process)
	})
}

// @Summary Цепочка согласования выпуска
// @Tags Согласование выпуска
// @Description Этапы согласования выпуска в порядке цепочки
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]releaseapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/{id}/approvals [get]
func (c *releaseApprovalApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	list, err := releaseapprovalhandler.Instance.ListByRelease(facilityID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения цепочки согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Решение по этапу согласования
// @Tags Согласование выпуска
// @Description Фиксация решения и пересчет статуса выпуска
// @Param   Authorization		header	string									true	"Authorization token"
// @Param	body 				body	releaseapimodels.ApprovalDecisionData	true	"request body"
// @Param   id          		path    string	true    "rec ID"
// @Param   approvalId          path    string	true    "approval rec ID"
// @Success 200 {object} apimodels.Response{data=releaseapimodels.ApprovalResultView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/{id}/approvals/{approvalId}/process [put]
func (c *releaseApprovalApiController) process(ctx *fiber.Ctx) error {
	releaseID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	approvalID, err := c.GetIDByKey(ctx, "approvalId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload releaseapimodels.ApprovalDecisionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	userID := middleware.GetUserID(ctx)
	view, releaseStatus, err := releaseapprovalhandler.Instance.Process(
		ctx.UserContext(), facilityID, userID, releaseID, approvalID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка фиксации решения по согласованию")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(releaseapimodels.ApprovalResultView{
		Approval:          view,
		ReleaseStatus:     releaseStatus,
		ReleaseStatusName: releaseStatus.ToHuman(),
	}))
}
