package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/features/participants/dto"
	"classtrack_backend/internals/features/participants/service"
	helper "classtrack_backend/internals/helpers"
	"classtrack_backend/internals/middlewares/auth"
	"classtrack_backend/internals/store"
)

var validate = validator.New()

type ParticipantController struct {
	Store    store.Store
	Mutators *service.ParticipantMutators
}

func NewParticipantController(st store.Store, mutators *service.ParticipantMutators) *ParticipantController {
	return &ParticipantController{Store: st, Mutators: mutators}
}

func (ctrl *ParticipantController) GetByID(c *fiber.Ctx) error {
	p, err := ctrl.Store.Participants().GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "participant not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "failed to load participant")
	}
	return helper.Success(c, "participant found", dto.NewParticipantResponse(p))
}

func (ctrl *ParticipantController) Create(c *fiber.Ctx) error {
	var body dto.CreateParticipantRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	p, err := ctrl.Mutators.Create(c.UserContext(), mctx, body)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "participant created", dto.NewParticipantResponse(p))
}

func (ctrl *ParticipantController) Update(c *fiber.Ctx) error {
	var body dto.UpdateParticipantRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	p, err := ctrl.Mutators.Update(c.UserContext(), mctx, c.Params("id"), body)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "participant updated", dto.NewParticipantResponse(p))
}

func (ctrl *ParticipantController) Delete(c *fiber.Ctx) error {
	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	if err := ctrl.Mutators.Delete(c.UserContext(), mctx, c.Params("id")); err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "participant deleted", nil)
}
