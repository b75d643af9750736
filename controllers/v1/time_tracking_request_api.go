package apiv1

import (
	"mime/multipart"
	"time-tracker-backend/config"
	"time-tracker-backend/controllers"
	ttrequesthandler "time-tracker-backend/lib/time-tracking/request"
	"time-tracker-backend/middleware"
	"time-tracker-backend/models"
	apimodels "time-tracker-backend/models/api"
	ttapimodels "time-tracker-backend/models/api/timetracking"

	"github.com/gofiber/fiber/v2"
)

const (
	imagesFormKey  = "images"
	exportFileName = "time-tracking-requests.xlsx"
	xlsxMimeType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type timeTrackingRequestApiController struct {
	controllers.BaseAPIController
}

func InitTimeTrackingRequestApiRouters(router fiber.Router) {
	controller := timeTrackingRequestApiController{}
	router.Route("requests", func(router fiber.Router) {
		router.Get("", controller.list)
		router.Post("", controller.create)
		router.Get("pending", controller.pending)
		router.Get("summary", controller.summary)
		router.Get("export", controller.export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", controller.update)
			idRoute.Patch("", controller.transition)
			idRoute.Get("activity", controller.activity)
		})
	})
}

// @Summary Create request
// @Tags Time tracking
// @Description Multipart form, images are optional. The workspace threshold decides whether the request needs review
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   title			formData	string	true	"title"
// @Param   description		formData	string	false	"description"
// @Param   startTime		formData	string	true	"RFC3339 start"
// @Param   endTime			formData	string	true	"RFC3339 end"
// @Param   taskId			formData	string	false	"task ID"
// @Param   categoryId		formData	string	false	"category ID"
// @Param   images			formData	file	false	"up to 5 images"
// @Success 200 {object} ttapimodels.RequestView
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests [post]
func (c *timeTrackingRequestApiController) create(ctx *fiber.Ctx) error {
	var form ttapimodels.RequestForm
	if err := c.BodyParser(ctx, &form); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := form.ToRequestData()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error creating request")
	}
	images, closeImages, err := c.readImages(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error reading images")
	}
	defer closeImages()

	payload := ttapimodels.RequestCreateData{
		RequestData: data,
		TaskID:      form.TaskID,
		CategoryID:  form.CategoryID,
		Images:      images,
	}
	if err = payload.Validate(); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error creating request")
	}
	resp, err := ttrequesthandler.Instance.Create(ctx.UserContext(), middleware.GetPrincipal(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error creating request")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Request list
// @Tags Time tracking
// @Description Members only see their own requests
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   status			query		string	false	"pending|approved|rejected|needs_info|all"
// @Param   userId			query		string	false	"submitter ID"
// @Param   page			query		int		false	"page"
// @Param   limit			query		int		false	"page size"
// @Success 200 {object} ttapimodels.RequestListView
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests [get]
func (c *timeTrackingRequestApiController) list(ctx *fiber.Ctx) error {
	filter, err := c.queryFilter(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting request list")
	}
	resp, err := ttrequesthandler.Instance.List(middleware.GetPrincipal(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting request list")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Pending banner
// @Tags Time tracking
// @Description Pending and needs info requests, newest first, capped at the banner limit
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Success 200 {object} ttapimodels.BannerView
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/pending [get]
func (c *timeTrackingRequestApiController) pending(ctx *fiber.Ctx) error {
	resp, err := ttrequesthandler.Instance.Pending(middleware.GetPrincipal(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting pending requests")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Status summary
// @Tags Time tracking
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Success 200 {object} ttapimodels.SummaryView
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/summary [get]
func (c *timeTrackingRequestApiController) summary(ctx *fiber.Ctx) error {
	resp, err := ttrequesthandler.Instance.Summary(middleware.GetPrincipal(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting request summary")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Export to xlsx
// @Tags Time tracking
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   status			query		string	false	"pending|approved|rejected|needs_info|all"
// @Param   userId			query		string	false	"submitter ID"
// @Success 200 {file} file
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/export [get]
func (c *timeTrackingRequestApiController) export(ctx *fiber.Ctx) error {
	filter, err := c.queryFilter(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error exporting requests")
	}
	buf, err := ttrequesthandler.Instance.Export(middleware.GetPrincipal(ctx), filter)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error exporting requests")
	}
	ctx.Attachment(exportFileName)
	ctx.Set(fiber.HeaderContentType, xlsxMimeType)
	return ctx.Status(fiber.StatusOK).Send(buf.Bytes())
}

// @Summary Request detail
// @Tags Time tracking
// @Description Image links are signed and expire
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   id				path		string	true	"request ID"
// @Success 200 {object} ttapimodels.RequestView
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/{id} [get]
func (c *timeTrackingRequestApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := ttrequesthandler.Instance.GetByID(ctx.UserContext(), middleware.GetPrincipal(ctx), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting request")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Edit request content
// @Tags Time tracking
// @Description Submitter only, while the request is pending or waiting for information
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   id				path		string	true	"request ID"
// @Param   title			formData	string	true	"title"
// @Param   description		formData	string	false	"description"
// @Param   startTime		formData	string	true	"RFC3339 start"
// @Param   endTime			formData	string	true	"RFC3339 end"
// @Param   removedImages	formData	[]string	false	"stored image paths to remove"
// @Param   images			formData	file	false	"new images"
// @Success 200 {object} ttapimodels.RequestView
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/{id} [put]
func (c *timeTrackingRequestApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var form ttapimodels.RequestForm
	if err = c.BodyParser(ctx, &form); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	data, err := form.ToRequestData()
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error updating request")
	}
	images, closeImages, err := c.readImages(ctx)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error reading images")
	}
	defer closeImages()

	payload := ttapimodels.RequestEditData{
		RequestData:   data,
		RemovedImages: form.RemovedImages,
		NewImages:     images,
	}
	resp, err := ttrequesthandler.Instance.Update(ctx.UserContext(), middleware.GetPrincipal(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error updating request")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Approve, reject, request information or resubmit
// @Tags Time tracking
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   id				path		string	true	"request ID"
// @Param	body body	 ttapimodels.RequestActionData	true	"request body"
// @Success 200 {object} ttapimodels.RequestView
// @Failure 400 {object} apimodels.ErrorResponse
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 409 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/{id} [patch]
func (c *timeTrackingRequestApiController) transition(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload ttapimodels.RequestActionData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := ttrequesthandler.Instance.Transition(ctx.UserContext(), middleware.GetPrincipal(ctx), id, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error changing request status")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

// @Summary Activity log
// @Tags Time tracking
// @Description Newest first
// @Param   Authorization	header		string	true	"Authorization token"
// @Param   wsId			path		string	true	"workspace ID"
// @Param   id				path		string	true	"request ID"
// @Param   page			query		int		false	"page"
// @Param   limit			query		int		false	"page size"
// @Success 200 {object} ttapimodels.ActivityListView
// @Failure 403 {object} apimodels.ErrorResponse
// @Failure 404 {object} apimodels.ErrorResponse
// @Failure 500 {object} apimodels.ErrorResponse
// @router /api/v1/workspaces/{wsId}/time-tracking/requests/{id}/activity [get]
func (c *timeTrackingRequestApiController) activity(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var pagination apimodels.Pagination
	if err = ctx.QueryParser(&pagination); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("invalid pagination"))
	}
	resp, err := ttrequesthandler.Instance.Activity(middleware.GetPrincipal(ctx), id, pagination)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "error getting request activity")
	}
	return ctx.Status(fiber.StatusOK).JSON(resp)
}

func (c *timeTrackingRequestApiController) queryFilter(ctx *fiber.Ctx) (ttapimodels.RequestFilter, error) {
	var query ttapimodels.RequestQuery
	if err := ctx.QueryParser(&query); err != nil {
		return ttapimodels.RequestFilter{}, models.NewValidationError("invalid query parameters")
	}
	return query.ToFilter()
}

// readImages opens the uploaded image parts, the returned func closes them
func (c *timeTrackingRequestApiController) readImages(ctx *fiber.Ctx) ([]ttapimodels.ImageFile, func(), error) {
	noop := func() {}
	if len(ctx.Request().Header.MultipartFormBoundary()) == 0 {
		return nil, noop, nil
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, noop, models.NewValidationError("invalid multipart form")
	}
	headers := form.File[imagesFormKey]
	if len(headers) > models.MaxRequestImages {
		return nil, noop, models.ErrTooManyImages
	}
	maxSize := int64(config.Conf.S3.ImageMaxSizeMb) * 1024 * 1024
	files := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, file := range files {
			_ = file.Close()
		}
	}
	images := make([]ttapimodels.ImageFile, 0, len(headers))
	for _, header := range headers {
		if maxSize > 0 && header.Size > maxSize {
			closeAll()
			return nil, noop, models.NewValidationError("file %v exceeds %d MB", header.Filename, config.Conf.S3.ImageMaxSizeMb)
		}
		file, err := header.Open()
		if err != nil {
			closeAll()
			return nil, noop, models.NewValidationError("unable to read file %v", header.Filename)
		}
		files = append(files, file)
		images = append(images, ttapimodels.ImageFile{
			FileName:    header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Size:        header.Size,
			Content:     file,
		})
	}
	return images, closeAll, nil
}
