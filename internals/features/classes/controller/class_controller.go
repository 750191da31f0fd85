package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/features/classes/dto"
	"classtrack_backend/internals/features/classes/service"
	helper "classtrack_backend/internals/helpers"
	"classtrack_backend/internals/middlewares/auth"
	"classtrack_backend/internals/store"
)

var validate = validator.New()

type ClassController struct {
	Store    store.Store
	Mutators *service.ClassMutators
}

func NewClassController(st store.Store, mutators *service.ClassMutators) *ClassController {
	return &ClassController{Store: st, Mutators: mutators}
}

func (ctrl *ClassController) GetAll(c *fiber.Ctx) error {
	classes, err := ctrl.Store.Classes().List(c.UserContext())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "failed to list classes")
	}
	out := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		coordinatorIDs, err := ctrl.Store.Classes().CoordinatorIDs(c.UserContext(), classes[i].ID)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "failed to load coordinators")
		}
		out = append(out, *dto.NewClassResponse(&classes[i], coordinatorIDs))
	}
	return helper.Success(c, "classes found", out)
}

func (ctrl *ClassController) GetByID(c *fiber.Ctx) error {
	cls, err := ctrl.Store.Classes().GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "class not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "failed to load class")
	}
	coordinatorIDs, err := ctrl.Store.Classes().CoordinatorIDs(c.UserContext(), cls.ID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "failed to load coordinators")
	}
	return helper.Success(c, "class found", dto.NewClassResponse(cls, coordinatorIDs))
}

func (ctrl *ClassController) Create(c *fiber.Ctx) error {
	var body dto.CreateClassRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	cls, err := ctrl.Mutators.Create(c.UserContext(), mctx, body)
	if err != nil {
		return helper.FromError(c, err)
	}
	coordinatorIDs, _ := ctrl.Store.Classes().CoordinatorIDs(c.UserContext(), cls.ID)
	return helper.SuccessWithCode(c, fiber.StatusCreated, "class created", dto.NewClassResponse(cls, coordinatorIDs))
}

func (ctrl *ClassController) Update(c *fiber.Ctx) error {
	var body dto.UpdateClassRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	cls, err := ctrl.Mutators.Update(c.UserContext(), mctx, c.Params("id"), body)
	if err != nil {
		return helper.FromError(c, err)
	}
	coordinatorIDs, _ := ctrl.Store.Classes().CoordinatorIDs(c.UserContext(), cls.ID)
	return helper.Success(c, "class updated", dto.NewClassResponse(cls, coordinatorIDs))
}

func (ctrl *ClassController) Delete(c *fiber.Ctx) error {
	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	if err := ctrl.Mutators.Delete(c.UserContext(), mctx, c.Params("id")); err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "class deleted", nil)
}
