package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"classtrack_backend/internals/authz"
	"classtrack_backend/internals/features/invoices/dto"
	"classtrack_backend/internals/features/invoices/service"
	helper "classtrack_backend/internals/helpers"
	"classtrack_backend/internals/middlewares/auth"
	"classtrack_backend/internals/store"
)

var validate = validator.New()

type InvoiceController struct {
	Store      store.Store
	Mutators   *service.InvoiceMutators
	Reconciler *service.Reconciler
}

func NewInvoiceController(st store.Store, mutators *service.InvoiceMutators, reconciler *service.Reconciler) *InvoiceController {
	return &InvoiceController{Store: st, Mutators: mutators, Reconciler: reconciler}
}

func (ctrl *InvoiceController) GetAll(c *fiber.Ctx) error {
	invoices, err := ctrl.Store.Invoices().List(c.UserContext())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "failed to list invoices")
	}
	return helper.Success(c, "invoices found", dto.NewInvoiceResponses(invoices))
}

func (ctrl *InvoiceController) GetByID(c *fiber.Ctx) error {
	inv, err := ctrl.Store.Invoices().GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "invoice not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "failed to load invoice")
	}
	return helper.Success(c, "invoice found", dto.NewInvoiceResponse(inv))
}

// Generate bills the class's unbilled sessions immediately, without waiting
// for the monthly pass. It renders and uploads the artifact the same way the
// scheduled job does.
func (ctrl *InvoiceController) Generate(c *fiber.Ctx) error {
	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	if err := authz.AssertAdminOrFinance(mctx.Auth); err != nil {
		return helper.FromError(c, err)
	}

	res := ctrl.Reconciler.RunForClass(c.UserContext(), c.Params("classId"))
	if res.Err != nil {
		return helper.FromError(c, res.Err)
	}
	if res.InvoiceID == "" {
		return helper.Error(c, fiber.StatusConflict, "class has no unbilled sessions")
	}
	inv, err := ctrl.Store.Invoices().GetByID(c.UserContext(), res.InvoiceID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "failed to load invoice")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "invoice generated", dto.NewInvoiceResponse(inv))
}

// Reconcile triggers a billing pass on demand: the whole fleet, or a single
// class when :classId is present.
func (ctrl *InvoiceController) Reconcile(c *fiber.Ctx) error {
	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	if err := authz.AssertAdminOrFinance(mctx.Auth); err != nil {
		return helper.FromError(c, err)
	}

	var results []service.ClassResult
	if classID := c.Params("classId"); classID != "" {
		results = append(results, ctrl.Reconciler.RunForClass(c.UserContext(), classID))
	} else {
		var err error
		results, err = ctrl.Reconciler.Run(c.UserContext())
		if err != nil {
			return helper.FromError(c, err)
		}
	}

	out := make([]fiber.Map, 0, len(results))
	for _, res := range results {
		row := fiber.Map{
			"class_id":   res.ClassID,
			"invoice_id": res.InvoiceID,
			"sessions":   res.Sessions,
			"total":      res.Total,
		}
		if res.Err != nil {
			row["error"] = res.Err.Error()
		}
		out = append(out, row)
	}
	return helper.Success(c, "reconciliation finished", out)
}

func (ctrl *InvoiceController) ToggleApproved(c *fiber.Ctx) error {
	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	inv, err := ctrl.Mutators.ToggleApproved(c.UserContext(), mctx, c.Params("id"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "invoice approval toggled", dto.NewInvoiceResponse(inv))
}

func (ctrl *InvoiceController) MarkPaid(c *fiber.Ctx) error {
	var body dto.MarkPaidRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(body); err != nil {
		return helper.ValidationError(c, err)
	}

	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	inv, err := ctrl.Mutators.MarkPaid(c.UserContext(), mctx, c.Params("id"), body.PaymentScreenshot)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "invoice marked paid", dto.NewInvoiceResponse(inv))
}

func (ctrl *InvoiceController) Delete(c *fiber.Ctx) error {
	mctx := authz.Authoritative(auth.AuthFromLocals(c))
	if err := ctrl.Mutators.Delete(c.UserContext(), mctx, c.Params("id")); err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "invoice deleted", nil)
}
