package appointment

import "time"

// Overlaps aplica o teste padrão de interseção de intervalos
// semiabertos [aStart, aEnd) x [bStart, bEnd): encostar na borda
// (aEnd == bStart) não conflita.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

type TimeSlot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(start, end time.Time) bool {
	return Overlaps(start, end, i.Start, i.End)
}
