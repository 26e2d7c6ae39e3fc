package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	"txninsights/internal/model"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// MapError translates the core error taxonomy into HTTP responses. A
// ValidationError is a rejected input and is surfaced verbatim; pgx errors
// can only come from the Postgres dataset source path.
func MapError(err error) (int, ErrorResponse) {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ErrorResponse{
			Error:   "invalid query specification",
			Field:   ve.Field,
			Details: ve.Message,
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, ErrorResponse{Error: "resource not found"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return http.StatusServiceUnavailable, ErrorResponse{
			Error:   "dataset source unavailable",
			Details: pgErr.Message,
		}
	}

	log.Error().Err(err).Msg("unhandled error")
	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			status, resp := MapError(err)
			c.JSON(status, resp)
		}
	}
}
