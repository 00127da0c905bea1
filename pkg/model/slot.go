package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var ErrMalformedSlot = errors.New("malformed time slot")

// TimeSlot is an ordered "HH:MM-HH:MM" range of a day together with its duration in hours
type TimeSlot struct {
	Label    string
	Start    string
	End      string
	Duration float64
}

// SlotTable is the ordered slot sequence shared by every department of a run
type SlotTable struct {
	slots    []TimeSlot
	index    map[string]int
	excluded map[string]bool
}

func NewTimeSlot(start, end string) (TimeSlot, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	startHours, err := parseClock(start)
	if err != nil {
		return TimeSlot{}, err
	}
	endHours, err := parseClock(end)
	if err != nil {
		return TimeSlot{}, err
	}
	if endHours <= startHours {
		return TimeSlot{}, fmt.Errorf("%w: %v-%v ends before it starts", ErrMalformedSlot, start, end)
	}

	return TimeSlot{
		Label:    start + "-" + end,
		Start:    start,
		End:      end,
		Duration: endHours - startHours,
	}, nil
}

// NewSlotTable builds the slot sequence; excluded labels (e.g. meal breaks) are never reported as free
func NewSlotTable(slots []TimeSlot, excluded []string) (*SlotTable, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("%w: slot table is empty", ErrMalformedSlot)
	}

	table := &SlotTable{
		slots:    slots,
		index:    make(map[string]int, len(slots)),
		excluded: make(map[string]bool, len(excluded)),
	}
	for i, slot := range slots {
		if _, ok := table.index[slot.Label]; ok {
			return nil, fmt.Errorf("%w: duplicate slot %v", ErrMalformedSlot, slot.Label)
		}
		table.index[slot.Label] = i
	}
	for _, label := range excluded {
		table.excluded[strings.TrimSpace(label)] = true
	}
	return table, nil
}

func (table *SlotTable) Len() int { return len(table.slots) }

func (table *SlotTable) At(i int) TimeSlot { return table.slots[i] }

func (table *SlotTable) Labels() []string {
	return lo.Map(table.slots, func(slot TimeSlot, _ int) string { return slot.Label })
}

// Index returns the position of label in the sequence or -1
func (table *SlotTable) Index(label string) int {
	if i, ok := table.index[label]; ok {
		return i
	}
	return -1
}

func (table *SlotTable) Excluded(i int) bool {
	return table.excluded[table.slots[i].Label]
}

// Duration sums the durations of the given slot positions
func (table *SlotTable) Duration(slots []int) float64 {
	return lo.SumBy(slots, func(i int) float64 { return table.slots[i].Duration })
}

func parseClock(clock string) (float64, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrMalformedSlot, clock)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrMalformedSlot, clock)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || minutes < 0 || minutes > 59 || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrMalformedSlot, clock)
	}
	return float64(hours) + float64(minutes)/60, nil
}
