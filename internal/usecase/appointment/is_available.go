package appointment

import (
	"context"
	"time"

	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/httperr"
)

type IsBarberAvailable struct {
	repo    domain.Repository
	machine *domain.Machine
}

func NewIsBarberAvailable(
	repo domain.Repository,
	machine *domain.Machine,
) *IsBarberAvailable {
	return &IsBarberAvailable{repo: repo, machine: machine}
}

// Execute responde se [start, end) está livre para o barbeiro.
// Barbeiro inexistente/inativo ou de outra barbearia responde false
// (fail closed), não erro. excludeID ignora o próprio agendamento no
// scan (update in place).
func (uc *IsBarberAvailable) Execute(
	ctx context.Context,
	barbershopID, barberID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (bool, error) {

	if !end.After(start) {
		return false, httperr.ValidationErr("invalid_interval")
	}

	barber, err := uc.repo.GetBarberByID(ctx, barberID)
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	if barber.BarbershopID != barbershopID {
		return false, nil
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, barber.BarbershopID)
	if err != nil {
		if httperr.IsKind(err, httperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}

	if !domain.WithinBarberHours(barber, start, end) {
		return false, nil
	}
	if !domain.WithinShopHours(shop, start, end) {
		return false, nil
	}

	conflicts, err := uc.repo.CountConflicts(
		ctx, barberID, start, end, excludeID,
		uc.machine.BlockingStatuses(), false,
	)
	if err != nil {
		return false, err
	}

	return conflicts == 0, nil
}
