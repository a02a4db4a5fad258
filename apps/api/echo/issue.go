package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/issue"
	"github.com/trezcool/darasa/core/user"
)

type issueApi struct {
	svc      issue.ServiceInterface
	usrSvc   user.ServiceInterface
	validate *validator.Validate
}

func registerIssueAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := issueApi{
		svc:      deps.IssueSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	ig := g.Group("/issues", jwt)
	ig.GET("", api.query)
	ig.POST("", api.report, teacherMiddleware())
	ig.PATCH("/:id", api.update, staffMiddleware())
}

// Handlers

func (api *issueApi) query(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	filter := new(issue.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []issue.Issue{})
	}

	issues, err := api.svc.Query(ctx.Request().Context(), actor, *filter)
	if err != nil {
		return errors.Wrap(err, "querying issues")
	}
	if issues == nil {
		issues = []issue.Issue{}
	}
	return ctx.JSON(http.StatusOK, issues)
}

func (api *issueApi) report(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data issue.NewIssue
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewIssue")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	iss, err := api.svc.Report(ctx.Request().Context(), actor, data)
	if err != nil {
		return errors.Wrap(err, "reporting issue")
	}
	return ctx.JSON(http.StatusCreated, iss)
}

func (api *issueApi) update(ctx echo.Context) error {
	actor, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data issue.UpdateIssue
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateIssue")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	iss, err := api.svc.Update(ctx.Request().Context(), actor, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating issue")
	}
	return ctx.JSON(http.StatusOK, iss)
}
