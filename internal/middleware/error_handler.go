package middleware

import (
	"errors"

	"zeva-backend/internal/compliance"
	"zeva-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Returns the standard error
// format. Configuration and data-integrity failures from the compliance
// core are unrecoverable data/logic faults: they surface as 500s and are
// logged for operator alerting, never retried.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	details := map[string]interface{}{}

	var fiberErr *fiber.Error
	var cfgErr *compliance.ConfigurationError
	var intErr *compliance.DataIntegrityError
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	case errors.As(err, &cfgErr):
		message = "Compliance configuration error"
		details["reason"] = cfgErr.Reason
		log.Error().Str("trace_id", GetTraceID(c)).Str("reason", cfgErr.Reason).Msg("configuration error")
	case errors.As(err, &intErr):
		message = "Ledger integrity error"
		details["reason"] = intErr.Reason
		log.Error().Str("trace_id", GetTraceID(c)).Str("reason", intErr.Reason).Msg("data integrity error")
	}

	return response.Error(c, message, code, details)
}
