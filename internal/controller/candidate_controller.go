package controller

import (
	"resume-assistant-be/internal/constant"
	"resume-assistant-be/internal/dto"
	"resume-assistant-be/internal/pkg/serverutils"
	"resume-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICandidateController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	AddProject(ctx *fiber.Ctx) error
	FetchGithub(ctx *fiber.Ctx) error
}

type candidateController struct {
	service service.ICandidateService
}

func NewCandidateController(service service.ICandidateService) ICandidateController {
	return &candidateController{service: service}
}

func (c *candidateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/candidates")
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Post(":id/projects", c.AddProject)
	h.Post(":id/github", c.FetchGithub)

	// Flat routes kept for older clients; the candidate comes from ?candidate_id.
	r.Post("/add-project", c.AddProject)
	r.Post("/fetch-github", c.FetchGithub)
}

func (c *candidateController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *candidateController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.GetById(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *candidateController) AddProject(ctx *fiber.Ctx) error {
	var req dto.AddProjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return &serverutils.InternalError{Message: constant.ChatErrInternal, Err: err}
	}

	res, err := c.service.AddProject(ctx.UserContext(), candidateId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *candidateController) FetchGithub(ctx *fiber.Ctx) error {
	var req dto.FetchGithubRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return &serverutils.InternalError{Message: constant.ChatErrInternal, Err: err}
		}
	}
	if req.Username == "" {
		req.Username = ctx.Query(constant.CandidateQueryUsername)
	}

	res, err := c.service.FetchGithub(ctx.UserContext(), candidateId(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func candidateId(ctx *fiber.Ctx) string {
	if id := ctx.Params("id"); id != "" {
		return id
	}
	return ctx.Query(constant.CandidateQueryId)
}
