package server

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/assetledger/assetledger/internal/config"
	"github.com/assetledger/assetledger/internal/usecase"
)

// UserIdentityMiddleware resolves the calling participant from the
// X-User-Id header. Possession of the wallet credential is proven
// ledger-side when the session signs its first transaction; this layer
// only threads the label through.
func (s *Server) UserIdentityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		email := c.Request().Header.Get(config.HEADER_KEY_X_USER_ID)
		if email == "" {
			return c.JSON(401, Res{Error: "missing " + config.HEADER_KEY_X_USER_ID + " header"})
		}
		ctx := context.WithValue(c.Request().Context(), config.CTX_KEY_USER_EMAIL, email)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

func callerEmail(c echo.Context) (string, bool) {
	email, ok := c.Request().Context().Value(config.CTX_KEY_USER_EMAIL).(string)
	return email, ok
}

// statusOf maps the failure taxonomy onto HTTP statuses.
func statusOf(err error) int {
	switch usecase.KindOf(err) {
	case usecase.KindInvalidArgument:
		return 400
	case usecase.KindNotFound:
		return 404
	case usecase.KindAlreadyExists, usecase.KindDuplicateAsset:
		return 409
	case usecase.KindUnauthorized:
		return 403
	case usecase.KindPreconditionFailed:
		return 412
	case usecase.KindExternalIO:
		return 502
	default:
		return 500
	}
}
