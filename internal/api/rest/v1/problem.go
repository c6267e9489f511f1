package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/resilience"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to the error envelopes
const (
	TextCodeBadRequest         = "BAD_REQUEST"
	TextCodeValidation         = "VALIDATION_ERROR"
	TextCodeTokenNotFound      = "TOKEN_NOT_FOUND"
	TextCodeIdempotencyReused  = "IDEMPOTENCY_KEY_REUSED"
	TextCodeRateLimited        = "RATE_LIMITED"
	TextCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	TextCodeInternal           = "INTERNAL_ERROR"
)

const (
	problemContentType = "application/problem+json"
	problemType        = "about:blank"
	detailValidation   = "Request validation failed"
	detailUnexpected   = "An unexpected error occurred"
)

var problemTitles = map[string]string{
	TextCodeBadRequest:         "Bad Request",
	TextCodeValidation:         "Validation Error",
	TextCodeTokenNotFound:      "Token Not Found",
	TextCodeIdempotencyReused:  "Unprocessable Entity",
	TextCodeRateLimited:        "Too Many Requests",
	TextCodeServiceUnavailable: "Service Unavailable",
	TextCodeInternal:           "Internal Server Error",
}

// ToServiceError classifies err into a go-errors envelope carrying the HTTP status
func ToServiceError(err error) *goerrors.Error {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich
	}

	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		fields := make([]goerrors.FieldError, 0, len(validationErr.Messages))
		for _, message := range validationErr.Messages {
			fields = append(fields, goerrors.FieldError{Field: "body", Message: message})
		}
		return goerrors.NewValidation(detailValidation, fields...).
			WithCode(http.StatusBadRequest).
			WithTextCode(TextCodeValidation).
			WithSeverity(goerrors.SeverityError)
	case errors.Is(err, errBodyRequired), errors.Is(err, errFailedToRead):
		return goerrors.New(err.Error(), goerrors.CategoryBadInput).
			WithCode(http.StatusBadRequest).
			WithTextCode(TextCodeBadRequest)
	case errors.Is(err, tokens.ErrTokenNotFound):
		var notFound *tokens.TokenNotFoundError
		message := err.Error()
		if errors.As(err, &notFound) {
			message = notFound.Error()
		}
		return goerrors.New(message, goerrors.CategoryNotFound).
			WithCode(http.StatusNotFound).
			WithTextCode(TextCodeTokenNotFound)
	case errors.Is(err, idempotency.ErrKeyReused):
		return goerrors.New(idempotency.ErrKeyReused.Error(), goerrors.CategoryConflict).
			WithCode(http.StatusUnprocessableEntity).
			WithTextCode(TextCodeIdempotencyReused)
	case errors.Is(err, resilience.ErrRateLimited):
		return goerrors.New(resilience.ErrRateLimited.Error(), goerrors.CategoryRateLimit).
			WithCode(http.StatusTooManyRequests).
			WithTextCode(TextCodeRateLimited)
	case errors.Is(err, resilience.ErrBulkheadFull),
		errors.Is(err, resilience.ErrCircuitOpen),
		errors.Is(err, resilience.ErrTimeout):
		return goerrors.Wrap(err, goerrors.CategoryExternal, "The token store is temporarily unavailable").
			WithCode(http.StatusServiceUnavailable).
			WithTextCode(TextCodeServiceUnavailable)
	default:
		return goerrors.Wrap(err, goerrors.CategoryInternal, detailUnexpected).
			WithCode(http.StatusInternalServerError).
			WithTextCode(TextCodeInternal)
	}
}

// NewProblemDetails renders a classified error as problem details
func NewProblemDetails(rich *goerrors.Error, instance string) ProblemDetails {
	status := rich.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	title, ok := problemTitles[rich.TextCode]
	if !ok {
		title = http.StatusText(status)
	}

	problem := ProblemDetails{
		Type:      problemType,
		Title:     title,
		Status:    status,
		Detail:    rich.Message,
		Instance:  instance,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}

	if status >= http.StatusInternalServerError && rich.TextCode != TextCodeServiceUnavailable {
		problem.Detail = detailUnexpected
	}

	if rich.TextCode == TextCodeValidation {
		problem.Detail = detailValidation
		for _, fieldErr := range rich.AllValidationErrors() {
			problem.Errors = append(problem.Errors, fieldErr.Message)
		}
	}

	return problem
}

// writeProblem classifies err, logs it and writes the problem details response
func writeProblem(ctx *gin.Context, log logger.Logger, err error) {
	rich := ToServiceError(err)
	problem := NewProblemDetails(rich, ctx.Request.URL.Path)

	switch {
	case problem.Status >= http.StatusInternalServerError:
		log.Error("Request ", ctx.Request.Method, " ", problem.Instance, " failed: ", err)
	default:
		log.Warn("Request ", ctx.Request.Method, " ", problem.Instance, " rejected: ", problem.Detail)
	}

	ctx.Header("Content-Type", problemContentType)
	ctx.AbortWithStatusJSON(problem.Status, problem)
}
