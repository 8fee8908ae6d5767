package apiv1

import (
	"github.com/gofiber/fiber/v2"

	"cultivation-backend/controllers"
	releasecheckpointhandler "cultivation-backend/lib/release-checkpoint"
	"cultivation-backend/middleware"
	apimodels "cultivation-backend/models/api"
	releaseapimodels "cultivation-backend/models/api/release"
)

type releaseCheckpointApiController struct {
	controllers.BaseAPIController
}

func InitReleaseCheckpointApiRouters(app *fiber.App) {
	controller := releaseCheckpointApiController{}
	app.Route("release/:id/checkpoints", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Put(":checkpointId/complete", controller.complete)
	})
}

// @Summary Контрольные точки выпуска
// @Tags Контрольные точки
// @Description Список контрольных точек выпуска в порядке шаблона
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]releaseapimodels.CheckpointView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/{id}/checkpoints [get]
func (c *releaseCheckpointApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	list, err := releasecheckpointhandler.Instance.ListByRelease(facilityID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения контрольных точек")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Фиксация результата контрольной точки
// @Tags Контрольные точки
// @Description Запись результата проверки и пересчет статуса выпуска
// @Param   Authorization		header	string										true	"Authorization token"
// @Param	body 				body	releaseapimodels.CheckpointCompleteData		true	"request body"
// @Param   id          		path    string	true    "rec ID"
// @Param   checkpointId        path    string	true    "checkpoint rec ID"
// @Success 200 {object} apimodels.Response{data=releaseapimodels.CheckpointDecisionView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/{id}/checkpoints/{checkpointId}/complete [put]
func (c *releaseCheckpointApiController) complete(ctx *fiber.Ctx) error {
	releaseID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	checkpointID, err := c.GetIDByKey(ctx, "checkpointId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload releaseapimodels.CheckpointCompleteData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	userID := middleware.GetUserID(ctx)
	view, releaseStatus, err := releasecheckpointhandler.Instance.Complete(
		ctx.UserContext(), facilityID, userID, releaseID, checkpointID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка фиксации результата контрольной точки")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(releaseapimodels.CheckpointDecisionView{
		Checkpoint:        view,
		ReleaseStatus:     releaseStatus,
		ReleaseStatusName: releaseStatus.ToHuman(),
	}))
}
