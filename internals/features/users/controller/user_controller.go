package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/features/users/dto"
	"classtrack_backend/internals/features/users/service"
	helper "classtrack_backend/internals/helpers"
	"classtrack_backend/internals/middlewares/auth"
	"classtrack_backend/internals/store"
)

var validate = validator.New()

type UserController struct {
	Store    store.Store
	Mutators *service.UserMutators
}

func NewUserController(st store.Store, mutators *service.UserMutators) *UserController {
	return &UserController{Store: st, Mutators: mutators}
}

func (ctrl *UserController) GetAll(c *fiber.Ctx) error {
	users, err := ctrl.Store.Users().List(c.UserContext())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "failed to list users")
	}
	return helper.Success(c, "users found", dto.NewUserResponses(users))
}

func (ctrl *UserController) GetByID(c *fiber.Ctx) error {
	u, err := ctrl.Store.Users().GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "user not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "failed to load user")
	}
	return helper.Success(c, "user found", dto.NewUserResponse(u))
}

func (ctrl *UserController) Create(c *fiber.Ctx) error {
	var body dto.CreateUserRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	u, err := ctrl.Mutators.Create(c.UserContext(), mctx, body)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "user created", dto.NewUserResponse(u))
}

func (ctrl *UserController) Update(c *fiber.Ctx) error {
	var body dto.UpdateUserRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	u, err := ctrl.Mutators.Update(c.UserContext(), mctx, c.Params("id"), body)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "user updated", dto.NewUserResponse(u))
}

func (ctrl *UserController) Delete(c *fiber.Ctx) error {
	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	if err := ctrl.Mutators.Delete(c.UserContext(), mctx, c.Params("id")); err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "user deleted", nil)
}
