package server

import (
	"github.com/labstack/echo/v4"
)

type RegisterUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// RegisterUser enrolls a wallet identity and then records the participant
// on the ledger. Both must succeed for the user to be able to log in.
func (s *Server) RegisterUser(ctx echo.Context) error {
	var req RegisterUserRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	msg, err := s.server.RegisterUser(ctx.Request().Context(), req.Email, req.FirstName, req.LastName)
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}

	p, err := s.server.CreateUser(ctx.Request().Context(), req.Email, req.FirstName, req.LastName)
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}

	return ctx.JSON(201, Res{
		Data: map[string]string{
			"email":      p.Email,
			"first_name": p.FirstName,
			"last_name":  p.LastName,
		},
		Message: msg,
	})
}

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

func (s *Server) CreateUser(ctx echo.Context) error {
	var req CreateUserRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(400, Res{Error: err.Error()})
	}
	if err := s.validator.Struct(req); err != nil {
		return ctx.JSON(422, Res{Error: err.Error()})
	}

	p, err := s.server.CreateUser(ctx.Request().Context(), req.Email, req.FirstName, req.LastName)
	if err != nil {
		return ctx.JSON(statusOf(err), Res{Error: err.Error()})
	}
	return ctx.JSON(201, Res{Data: map[string]string{
		"email":      p.Email,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
	}})
}
