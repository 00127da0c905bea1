package coordinator

import (
	"strings"

	"github.com/limaJavier/campus-timetabling/pkg/model"
)

type cellKey struct {
	Half model.Half
	Day  string
	Slot int
}

// ledger maps a (half, day, slot) cell to the resources occupying it. Each occupant carries an
// owner key; an empty owner key means the occupant is exclusive
type ledger struct {
	cells map[cellKey]map[string]string
}

func newLedger() *ledger {
	return &ledger{cells: make(map[cellKey]map[string]string)}
}

// free reports whether resource may be used at every slot by ownerKey
func (ledger *ledger) free(half model.Half, day string, slots []int, resource, ownerKey string) bool {
	for _, slot := range slots {
		owner, ok := ledger.cells[cellKey{half, day, slot}][resource]
		if !ok {
			continue
		}
		if ownerKey == "" || owner != ownerKey {
			return false
		}
	}
	return true
}

func (ledger *ledger) occupy(half model.Half, day string, slots []int, resource, ownerKey string) {
	for _, slot := range slots {
		key := cellKey{half, day, slot}
		occupants, ok := ledger.cells[key]
		if !ok {
			occupants = make(map[string]string)
			ledger.cells[key] = occupants
		}
		if _, taken := occupants[resource]; !taken {
			occupants[resource] = ownerKey
		}
	}
}

func (ledger *ledger) count(half model.Half, day string, slot int) int {
	return len(ledger.cells[cellKey{half, day, slot}])
}

// countExcept counts the occupants of a cell whose owner key does not start with ownerPrefix
func (ledger *ledger) countExcept(half model.Half, day string, slot int, ownerPrefix string) int {
	if ownerPrefix == "" {
		return ledger.count(half, day, slot)
	}
	count := 0
	for _, owner := range ledger.cells[cellKey{half, day, slot}] {
		if !strings.HasPrefix(owner, ownerPrefix) {
			count++
		}
	}
	return count
}

func (ledger *ledger) owner(half model.Half, day string, slot int, resource string) (string, bool) {
	owner, ok := ledger.cells[cellKey{half, day, slot}][resource]
	return owner, ok
}
