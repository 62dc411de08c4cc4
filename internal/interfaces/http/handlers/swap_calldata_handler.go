package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
	"swap-calldata.backend/internal/interfaces/http/response"
)

type SwapCalldataService interface {
	CompileCalldata(ctx context.Context, chainID entities.ChainID, quote *entities.SwapQuote, opts entities.ExecutionOptions) (*entities.CompiledSwap, error)
	ListRules(chainID entities.ChainID) ([]entities.RuleDescription, error)
	Chains() []entities.ChainID
}

// SwapCalldataHandler handles swap calldata endpoints
type SwapCalldataHandler struct {
	swapUsecase SwapCalldataService
}

// NewSwapCalldataHandler creates a new swap calldata handler
func NewSwapCalldataHandler(swapUsecase SwapCalldataService) *SwapCalldataHandler {
	return &SwapCalldataHandler{swapUsecase: swapUsecase}
}

// CompileCalldata compiles a quote into an exchange proxy call
// POST /api/v1/swap/calldata
func (h *SwapCalldataHandler) CompileCalldata(c *gin.Context) {
	var input CompileSwapRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	chainID, quote, opts, err := input.toEntities()
	if err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	compiled, err := h.swapUsecase.CompileCalldata(c.Request.Context(), chainID, quote, opts)
	if err != nil {
		response.Error(c, mapCompileError(err))
		return
	}

	response.Success(c, http.StatusOK, newCompileSwapResponse(compiled))
}

// ListRules describes the feature rules of a chain
// GET /api/v1/swap/rules?chainId=
func (h *SwapCalldataHandler) ListRules(c *gin.Context) {
	chainID, err := strconv.ParseUint(c.Query("chainId"), 10, 64)
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid chainId"))
		return
	}

	rules, err := h.swapUsecase.ListRules(entities.ChainID(chainID))
	if err != nil {
		response.Error(c, mapCompileError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{"chainId": chainID, "rules": rules})
}

// ListChains lists the chains with a loaded proxy deployment
// GET /api/v1/swap/chains
func (h *SwapCalldataHandler) ListChains(c *gin.Context) {
	chains := h.swapUsecase.Chains()
	if chains == nil {
		chains = []entities.ChainID{}
	}
	response.Success(c, http.StatusOK, gin.H{"chains": chains})
}

func mapCompileError(err error) error {
	switch {
	case errors.Is(err, domainerrors.ErrUnsupportedChain):
		return domainerrors.NewAppError(http.StatusNotFound, domainerrors.CodeNotFound, err.Error(), err)
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidInput, err.Error(), err)
	case errors.Is(err, domainerrors.ErrConfiguration):
		return domainerrors.UnprocessableEntity(err.Error(), err)
	}
	return domainerrors.InternalError(err)
}
