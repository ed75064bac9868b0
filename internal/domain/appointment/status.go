package appointment

import (
	"fmt"

	"github.com/barberflow/agenda-api/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// transitions é a máquina canônica. Confirmação é opcional: o pulo
// direto scheduled→completed é permitido. Nenhuma saída de estado
// terminal; transição para o mesmo estado é rejeitada.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusScheduled: {StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// ===============================
// Machine (conjunto configurável)
// ===============================

// Machine restringe a máquina canônica ao conjunto de status habilitado
// no deployment. Uma variante usa {pending, no_show}; a padrão não.
type Machine struct {
	initial Status
	allowed map[Status]bool
}

func NewMachine(initial Status, statuses []Status) (*Machine, error) {
	allowed := make(map[Status]bool, len(statuses))
	for _, s := range statuses {
		if _, ok := transitions[s]; !ok {
			return nil, fmt.Errorf("status desconhecido: %q", s)
		}
		allowed[s] = true
	}

	if !allowed[initial] {
		return nil, fmt.Errorf("status inicial %q fora do conjunto habilitado", initial)
	}
	if !allowed[StatusCancelled] {
		return nil, fmt.Errorf("o conjunto precisa incluir %q", StatusCancelled)
	}

	return &Machine{initial: initial, allowed: allowed}, nil
}

// DefaultMachine: {scheduled, confirmed, completed, cancelled}, inicial scheduled.
func DefaultMachine() *Machine {
	m, _ := NewMachine(StatusScheduled, []Status{
		StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled,
	})
	return m
}

// ExtendedMachine: variante com pending como inicial e no_show terminal.
func ExtendedMachine() *Machine {
	m, _ := NewMachine(StatusPending, []Status{
		StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow,
	})
	return m
}

func MachineFor(set string) *Machine {
	if set == "extended" {
		return ExtendedMachine()
	}
	return DefaultMachine()
}

func (m *Machine) Initial() Status {
	return m.initial
}

func (m *Machine) Allows(s Status) bool {
	return m.allowed[s]
}

// CanTransition valida from→to. Mesmo estado é erro (não é no-op).
func (m *Machine) CanTransition(from, to Status) error {
	if !m.allowed[from] || !m.allowed[to] {
		return httperr.InvalidStateErr("invalid_state")
	}
	if from == to {
		return httperr.InvalidStateErr("invalid_state")
	}

	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.InvalidStateErr("invalid_state")
}

// BlockingStatuses são os status que ocupam a agenda do barbeiro.
// cancelled e no_show liberam o horário (mas no_show mantém o débito
// de estoque — produto foi separado para a visita).
func (m *Machine) BlockingStatuses() []Status {
	out := make([]Status, 0, len(m.allowed))
	for s := range m.allowed {
		if s != StatusCancelled && s != StatusNoShow {
			out = append(out, s)
		}
	}
	return out
}

func IsTerminal(s Status) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}
