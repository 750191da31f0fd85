package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/features/sessions/dto"
	"classtrack_backend/internals/features/sessions/service"
	helper "classtrack_backend/internals/helpers"
	"classtrack_backend/internals/middlewares/auth"
	"classtrack_backend/internals/store"
)

var validate = validator.New()

type SessionController struct {
	Store    store.Store
	Mutators *service.SessionMutators
}

func NewSessionController(st store.Store, mutators *service.SessionMutators) *SessionController {
	return &SessionController{Store: st, Mutators: mutators}
}

func (ctrl *SessionController) GetByID(c *fiber.Ctx) error {
	s, err := ctrl.Store.Sessions().GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "session not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "failed to load session")
	}
	return helper.Success(c, "session found", dto.NewSessionResponse(s, nil))
}

// Create records a held session. The photo, when present, is an object key
// returned by the assets upload endpoint.
func (ctrl *SessionController) Create(c *fiber.Ctx) error {
	var body dto.CreateSessionRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	s, err := ctrl.Mutators.Create(c.UserContext(), mctx, body)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "session created", dto.NewSessionResponse(s, body.ParticipantIDs))
}

func (ctrl *SessionController) Delete(c *fiber.Ctx) error {
	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	if err := ctrl.Mutators.Delete(c.UserContext(), mctx, c.Params("id")); err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "session deleted", nil)
}
