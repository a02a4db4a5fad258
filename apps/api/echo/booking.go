package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/booking"
	"github.com/trezcool/darasa/core/user"
)

type bookingApi struct {
	svc      booking.ServiceInterface
	usrSvc   user.ServiceInterface
	validate *validator.Validate
}

func registerBookingAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := bookingApi{
		svc:      deps.BookingSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	bg := g.Group("/bookings", jwt)
	bg.GET("", api.query)
	bg.POST("", api.create, teacherMiddleware())
	bg.GET("/conflicts", api.checkConflicts)
	bg.GET("/:id", api.retrieve)
	bg.PATCH("/:id", api.transition, staffMiddleware())
	bg.POST("/:id/cancel", api.cancel)
}

// Handlers

func (api *bookingApi) query(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(booking.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []booking.Booking{})
	}
	if filter.Date, err = bindCalDate(ctx); err != nil {
		return err
	}

	bookings, err := api.svc.Query(ctx.Request().Context(), actor, *filter)
	if err != nil {
		return errors.Wrap(err, "querying bookings")
	}
	if bookings == nil {
		bookings = []booking.Booking{}
	}
	return ctx.JSON(http.StatusOK, bookings)
}

func (api *bookingApi) create(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data booking.NewBooking
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBooking")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	bk, err := api.svc.Create(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "creating booking")
	}
	return ctx.JSON(http.StatusCreated, bk)
}

// checkConflicts is the advisory pre-submission availability preview.
func (api *bookingApi) checkConflicts(ctx echo.Context) error {
	var query ConflictCheckRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to ConflictCheckRequest")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}
	date, err := core.ParseCalDate(query.Date)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: err.Error()})
	}

	taken, err := api.svc.CheckSlot(ctx.Request().Context(), query.RoomID, date, query.Slot)
	if err != nil {
		return errors.Wrap(err, "checking slot")
	}
	return ctx.JSON(http.StatusOK, ConflictCheckResponse{Available: !taken})
}

func (api *bookingApi) retrieve(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	bk, err := api.svc.GetByID(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting booking")
	}
	return ctx.JSON(http.StatusOK, bk)
}

func (api *bookingApi) transition(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data booking.TransitionBooking
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TransitionBooking")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	bk, err := api.svc.Transition(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "transitioning booking")
	}
	return ctx.JSON(http.StatusOK, bk)
}

func (api *bookingApi) cancel(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	bk, err := api.svc.Cancel(ctx.Request().Context(), actor, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "cancelling booking")
	}
	return ctx.JSON(http.StatusOK, bk)
}

type (
	ConflictCheckRequest struct {
		RoomID string `query:"room_id" validate:"required,uuid4"`
		Date   string `query:"date" validate:"required,caldate"`
		Slot   string `query:"slot" validate:"required,slot"`
	}

	ConflictCheckResponse struct {
		Available bool `json:"available"`
	}
)

func (cr *ConflictCheckRequest) Validate(validate *validator.Validate) error {
	cr.Slot = core.CleanString(cr.Slot)
	return validate.Struct(cr)
}
