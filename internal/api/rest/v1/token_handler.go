package v1

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Idempotency headers
const (
	HeaderIdempotencyKey     = "Idempotency-Key"
	HeaderIdempotentReplayed = "Idempotent-Replayed"
)

const (
	jsonContentType = "application/json; charset=utf-8"
	maxBodyBytes    = 1 << 20
)

// TokenHandler defines the interface for handling tokenization requests
type TokenHandler interface {
	Tokenize(ctx *gin.Context)
	Detokenize(ctx *gin.Context)
}

// tokenHandler struct holds the services
type tokenHandler struct {
	tokenizationService tokens.TokenizationService
	idempotencyService  idempotency.Service
	logger              logger.Logger
}

// NewTokenHandler creates a new TokenHandler
func NewTokenHandler(tokenizationService tokens.TokenizationService, idempotencyService idempotency.Service, logger logger.Logger) TokenHandler {
	return &tokenHandler{
		tokenizationService: tokenizationService,
		idempotencyService:  idempotencyService,
		logger:              logger,
	}
}

// Tokenize handles the POST request replacing account numbers with tokens
// @Summary Tokenize account numbers
// @Description Return the token of every account number, creating new tokens for unknown account numbers. Order is preserved.
// @Tags Token
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Replays the stored response of an earlier identical request"
// @Param requestBody body []string true "Account numbers"
// @Success 200 {array} string
// @Failure 400 {object} ProblemDetails
// @Failure 422 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /tokenize [post]
func (handler *tokenHandler) Tokenize(ctx *gin.Context) {
	body, err := readBody(ctx)
	if err != nil {
		writeProblem(ctx, handler.logger, err)
		return
	}

	key := ctx.GetHeader(HeaderIdempotencyKey)
	if len(key) > idempotency.MaxKeyLength {
		writeProblem(ctx, handler.logger, &ValidationError{
			Messages: []string{fmt.Sprintf("%s must be at most %d characters", HeaderIdempotencyKey, idempotency.MaxKeyLength)},
		})
		return
	}

	request, err := ParseTokenizeRequest(body)
	if err != nil {
		writeProblem(ctx, handler.logger, err)
		return
	}

	var requestHash string
	if key != "" && handler.idempotencyService != nil {
		requestHash = idempotency.Fingerprint(body)
		record, err := handler.idempotencyService.Lookup(ctx.Request.Context(), key, idempotency.OperationTokenize, requestHash)
		if err != nil {
			writeProblem(ctx, handler.logger, err)
			return
		}
		if record != nil {
			ctx.Header(HeaderIdempotentReplayed, "true")
			ctx.Data(record.StatusCode, jsonContentType, []byte(record.ResponseJSON))
			return
		}
	}

	tokenList, err := handler.tokenizationService.Tokenize(ctx.Request.Context(), request.AccountNumbers)
	if err != nil {
		writeProblem(ctx, handler.logger, err)
		return
	}

	response, err := json.Marshal(tokenList)
	if err != nil {
		writeProblem(ctx, handler.logger, err)
		return
	}

	if requestHash != "" {
		if err := handler.idempotencyService.Save(ctx.Request.Context(), key, idempotency.OperationTokenize, requestHash, http.StatusOK, response); err != nil {
			handler.logger.Warn("Failed to store response for Idempotency-Key ", key, ": ", err)
		}
	}

	ctx.Data(http.StatusOK, jsonContentType, response)
}

// Detokenize handles the POST request resolving tokens to account numbers
// @Summary Detokenize tokens
// @Description Resolve every token to its account number. The first unknown token fails the request.
// @Tags Token
// @Accept json
// @Produce json
// @Param requestBody body []string true "Tokens"
// @Success 200 {array} string
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /detokenize [post]
func (handler *tokenHandler) Detokenize(ctx *gin.Context) {
	body, err := readBody(ctx)
	if err != nil {
		writeProblem(ctx, handler.logger, err)
		return
	}

	request, err := ParseDetokenizeRequest(body)
	if err != nil {
		writeProblem(ctx, handler.logger, err)
		return
	}

	accountNumbers, err := handler.tokenizationService.Detokenize(ctx.Request.Context(), request.Tokens)
	if err != nil {
		writeProblem(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, accountNumbers)
}

func readBody(ctx *gin.Context) ([]byte, error) {
	if ctx.Request.Body == nil {
		return nil, errBodyRequired
	}
	body, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, errFailedToRead
	}
	return body, nil
}
