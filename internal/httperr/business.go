package httperr

import "errors"

// Kind classifica o erro de negócio para o mapeamento de status HTTP
// e para o chamador decidir o que fazer sem inspecionar strings.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindValidation        Kind = "validation"
	KindSlotUnavailable   Kind = "slot_unavailable"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidState      Kind = "invalid_state"
	KindInternal          Kind = "internal"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(kind Kind, code string) error {
	return BusinessError{Kind: kind, Code: code}
}

func NotFoundErr(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ValidationErr(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func SlotUnavailableErr(code string) error {
	return BusinessError{Kind: KindSlotUnavailable, Code: code}
}

func InsufficientStockErr(code string) error {
	return BusinessError{Kind: KindInsufficientStock, Code: code}
}

func InvalidStateErr(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}
