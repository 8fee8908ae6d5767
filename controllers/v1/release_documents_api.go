package apiv1

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"cultivation-backend/controllers"
	filestorage "cultivation-backend/lib/file-storage"
	"cultivation-backend/middleware"
	apimodels "cultivation-backend/models/api"
	dbmodels "cultivation-backend/models/db"
)

type releaseDocumentApiController struct {
	controllers.BaseAPIController
}

func InitReleaseDocumentApiRouters(app *fiber.App) {
	controller := releaseDocumentApiController{}
	app.Route("release/:id/documents", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.upload)
		router.Get(":documentId", controller.download)
	})
}

// @Summary Документы выпуска
// @Tags Документы выпуска
// @Description Список документов, приложенных к выпуску
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Success 200 {object} apimodels.Response{data=[]releaseapimodels.DocumentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/{id}/documents [get]
func (c *releaseDocumentApiController) list(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	list, err := filestorage.Instance.ListByRelease(facilityID, id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документов выпуска")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Загрузка документа выпуска
// @Tags Документы выпуска
// @Description Загрузка документа (multipart, поле file), тип в поле doc_type
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Param   file				formData	file	true	"файл документа"
// @Param   doc_type			formData	string	false	"тип документа"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/{id}/documents [post]
func (c *releaseDocumentApiController) upload(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось получить файл из запроса"))
	}
	docType := dbmodels.DocumentType(ctx.FormValue("doc_type"))
	if docType == "" {
		docType = dbmodels.DocumentOther
	}
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("не удалось прочитать файл"))
	}
	defer file.Close()

	facilityID := middleware.GetUserFacility(ctx)
	userID := middleware.GetUserID(ctx)
	docID, err := filestorage.Instance.UploadDocument(ctx.UserContext(), facilityID, id, userID,
		fileHeader.Filename, docType, fileHeader.Header.Get(fiber.HeaderContentType), file, fileHeader.Size)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка загрузки документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(docID))
}

// @Summary Скачивание документа выпуска
// @Tags Документы выпуска
// @Description Скачивание документа выпуска
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   id          		path    string	true    "rec ID"
// @Param   documentId          path    string	true    "document rec ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/release/{id}/documents/{documentId} [get]
func (c *releaseDocumentApiController) download(ctx *fiber.Ctx) error {
	releaseID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	documentID, err := c.GetIDByKey(ctx, "documentId")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	facilityID := middleware.GetUserFacility(ctx)
	data, view, err := filestorage.Instance.GetDocument(ctx.UserContext(), facilityID, releaseID, documentID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка скачивания документа")
	}
	ctx.Set(fiber.HeaderContentType, view.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename*=UTF-8''%v`, url.PathEscape(view.Name)))
	return ctx.Status(fiber.StatusOK).SendStream(bytes.NewReader(data))
}
