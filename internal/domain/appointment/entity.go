package appointment

import (
	"strings"
	"time"

	"github.com/barberflow/agenda-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Cancel aplica a transição e anexa o motivo às notas sem apagar o que
// já estava lá.
func Cancel(m *Machine, ap *models.Appointment, reason string, now time.Time) error {
	if err := m.CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now

	if reason = strings.TrimSpace(reason); reason != "" {
		if ap.Notes != "" {
			ap.Notes += "\n"
		}
		ap.Notes += "Cancelado: " + reason
	}

	return nil
}

func Complete(m *Machine, ap *models.Appointment, now time.Time) error {
	if err := m.CanTransition(Status(ap.Status), StatusCompleted); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func Confirm(m *Machine, ap *models.Appointment) error {
	if err := m.CanTransition(Status(ap.Status), StatusConfirmed); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

func MarkNoShow(m *Machine, ap *models.Appointment) error {
	if err := m.CanTransition(Status(ap.Status), StatusNoShow); err != nil {
		return err
	}

	ap.Status = string(StatusNoShow)
	return nil
}
