package controller

import (
	"errors"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/internal/dto"
	"resume-assistant-be/internal/pkg/serverutils"
	"resume-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IUploadController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Ready(ctx *fiber.Ctx) error
}

type uploadController struct {
	service service.IUploadService
}

func NewUploadController(service service.IUploadService) IUploadController {
	return &uploadController{service: service}
}

func (c *uploadController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload", c.Upload)
	r.Get("/upload", c.Ready)
}

func (c *uploadController) Upload(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile(constant.UploadFormFieldFile)
	if err != nil && !errors.Is(err, fasthttp.ErrMissingFile) {
		// not multipart, or the form could not be parsed
		return c.fail(ctx, &serverutils.InternalError{Message: constant.UploadErrFailed, Err: err})
	}

	res, err := c.service.Submit(ctx.UserContext(), file, ctx.FormValue(constant.UploadFormFieldName))
	if err != nil {
		return c.fail(ctx, err)
	}

	return ctx.JSON(res)
}

func (c *uploadController) Ready(ctx *fiber.Ctx) error {
	return ctx.JSON(dto.HealthResponse{
		Status:  constant.UploadStatusHealthy,
		Message: constant.UploadMsgReady,
	})
}

// fail writes the upload envelope, which carries status alongside error.
func (c *uploadController) fail(ctx *fiber.Ctx, err error) error {
	status, message := serverutils.StatusFor(err, constant.UploadErrFailed)
	return ctx.Status(status).JSON(serverutils.StatusErrorResponse(message))
}
