package appointment

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "github.com/barberflow/agenda-api/internal/domain/appointment"
	"github.com/barberflow/agenda-api/internal/httperr"
)

type GetAvailableSlots struct {
	repo    domain.Repository
	cache   domain.SlotCache
	machine *domain.Machine
	step    time.Duration
	log     *zap.Logger
}

func NewGetAvailableSlots(
	repo domain.Repository,
	cache domain.SlotCache,
	machine *domain.Machine,
	stepMinutes int,
	log *zap.Logger,
) *GetAvailableSlots {
	return &GetAvailableSlots{
		repo:    repo,
		cache:   cache,
		machine: machine,
		step:    time.Duration(stepMinutes) * time.Minute,
		log:     log,
	}
}

// Execute gera a sequência ordenada de slots do barbeiro na data.
// Função pura de (barbeiro, data, passo): dia fechado produz sequência
// vazia; cada slot carrega a flag de disponibilidade.
func (uc *GetAvailableSlots) Execute(
	ctx context.Context,
	barbershopID, barberID uint,
	date time.Time,
) ([]domain.TimeSlot, error) {

	barber, err := uc.repo.GetBarberByID(ctx, barberID)
	if err != nil {
		return nil, err
	}
	if barber.BarbershopID != barbershopID {
		return nil, httperr.NotFoundErr("barber_not_found")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, barber.BarbershopID)
	if err != nil {
		return nil, err
	}

	window := domain.EffectiveWindow(shop, barber, date)
	if !window.Open {
		return []domain.TimeSlot{}, nil
	}

	if slots, ok := uc.cache.Get(ctx, barberID, date); ok {
		return slots, nil
	}

	busy, err := uc.repo.ListIntervalsForDay(
		ctx, barberID, window.Start, window.End,
		uc.machine.BlockingStatuses(),
	)
	if err != nil {
		return nil, err
	}

	slots := walkWindow(window, uc.step, busy)

	uc.cache.Set(ctx, barberID, date, slots)
	return slots, nil
}

// walkWindow caminha a janela em passos fixos; o último slot nunca
// ultrapassa o fechamento.
func walkWindow(w domain.DayWindow, step time.Duration, busy []domain.Interval) []domain.TimeSlot {
	slots := []domain.TimeSlot{}

	for cur := w.Start; !cur.Add(step).After(w.End); cur = cur.Add(step) {
		slotEnd := cur.Add(step)

		available := true
		for _, b := range busy {
			if b.Overlaps(cur, slotEnd) {
				available = false
				break
			}
		}

		slots = append(slots, domain.TimeSlot{
			Start:     cur,
			End:       slotEnd,
			Available: available,
		})
	}

	return slots
}
