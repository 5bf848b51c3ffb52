package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"marketai/internal/fees"
	"marketai/internal/marketerrors"
	"marketai/internal/models"
	"marketai/services/helpers"
	"marketai/utils"

	"github.com/gin-gonic/gin"
)

type FeeCalculatorInterface interface {
	Calculate(amount int64) (models.FeeQuote, error)
}

type FeesHandler struct {
	calculator FeeCalculatorInterface
}

func NewFeesHandler(calculator FeeCalculatorInterface) *FeesHandler {
	return &FeesHandler{calculator: calculator}
}

// QuoteHandler handles GET /fees/quote?amount=
func (h *FeesHandler) QuoteHandler(c *gin.Context) {
	raw := c.Query("amount")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		err = fmt.Errorf("amount %q is not a number: %w", raw, marketerrors.ErrInvalidInput)
		helpers.RespondError(c, "QuoteHandler", "invalid amount", err, nil)
		return
	}

	amount, err := fees.ParseAmount(value)
	if err == nil {
		var quote models.FeeQuote
		if quote, err = h.calculator.Calculate(amount); err == nil {
			utils.JSONResponse(c, http.StatusOK, quote, "fee quote calculated successfully")
			return
		}
	}
	helpers.RespondError(c, "QuoteHandler", "fee quote failed", err, map[string]any{"amount": raw})
}
