package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError mapeia o Kind do erro de negócio para o status HTTP.
// Erros não classificados viram 500 genérico (sem vazar detalhe interno).
func FromError(c *gin.Context, err error) {
	var status int

	switch KindOf(err) {
	case KindNotFound:
		status = http.StatusNotFound
	case KindValidation:
		status = http.StatusBadRequest
	case KindSlotUnavailable, KindInsufficientStock, KindInvalidState:
		status = http.StatusConflict
	default:
		Internal(c, "internal_error", "Erro interno.")
		return
	}

	Write(c, status, err.Error(), messageFor(err.Error()))
}

func messageFor(code string) string {
	switch code {
	case "time_conflict":
		return "Conflito de horário."
	case "outside_working_hours":
		return "Fora do expediente do barbeiro."
	case "outside_shop_hours":
		return "Fora do horário de funcionamento da barbearia."
	case "insufficient_stock":
		return "Estoque insuficiente."
	case "invalid_state":
		return "Transição de status inválida."
	case "barber_not_found":
		return "Barbeiro não encontrado."
	case "service_not_found":
		return "Serviço não encontrado."
	case "product_not_found":
		return "Produto não encontrado."
	case "client_not_found":
		return "Cliente não encontrado."
	case "appointment_not_found":
		return "Agendamento não encontrado."
	case "barbershop_not_found":
		return "Barbearia não encontrada."
	default:
		return "Operação não permitida."
	}
}
