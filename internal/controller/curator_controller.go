package controller

import (
	"gem-curator-be/internal/dto"
	"gem-curator-be/internal/pkg/serverutils"
	"gem-curator-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICuratorController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Resume(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type curatorController struct {
	service service.ICuratorService
}

func NewCuratorController(service service.ICuratorService) ICuratorController {
	return &curatorController{service: service}
}

func (c *curatorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/curator/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("sessions", c.Start)
	h.Post("sessions/:id/resume", c.Resume)
	h.Get("sessions/:id", c.Show)
}

func (c *curatorController) Start(ctx *fiber.Ctx) error {
	userId, err := userIdFrom(ctx)
	if err != nil {
		return err
	}

	var req dto.StartCurationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Start(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start curation", res))
}

func (c *curatorController) Resume(ctx *fiber.Ctx) error {
	userId, err := userIdFrom(ctx)
	if err != nil {
		return err
	}

	var req dto.ResumeCurationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Resume(ctx.Context(), userId, ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resume curation", res))
}

func (c *curatorController) Show(ctx *fiber.Ctx) error {
	userId, err := userIdFrom(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Get(ctx.Context(), userId, ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show curation", res))
}

func userIdFrom(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user")
	}
	return userId, nil
}
