package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/campus-timetabling/pkg/coordinator"
	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type daySlot struct {
	day  string
	slot int
}

type alternativeRooms struct {
	course   model.Course
	owner    coordinator.ElectiveRoomKey
	stable   string
	perSlot  []lo.Entry[daySlot, string]
	assigned bool
}

// AssignElectiveRooms gives every alternative of each scheduled basket a room for the basket's slots.
// Reservations go to the shared room ledger under the alternative's owner key
func (pass *Pass) AssignElectiveRooms() ([]ElectiveRoom, error) {
	assignments := make([]ElectiveRoom, 0)
	for _, elective := range pass.electives {
		slots, lectures := pass.basketSlots(elective.placeholder.Code)
		candidates := pass.electiveCandidateRooms(lectures)

		alternatives := lo.Map(elective.alternatives, func(course model.Course, _ int) *alternativeRooms {
			return &alternativeRooms{
				course: course,
				owner:  coordinator.NewElectiveRoomKey(pass.department.SemesterGroup, pass.half, elective.basket, course.Title),
			}
		})

		//** Saved room templates
		for _, alternative := range alternatives {
			room, ok := pass.coordinator.ElectiveRoom(alternative.owner)
			if !ok || !pass.electiveRoomAdmitted(room) || !pass.freeForAlternative(room, alternative, slots) {
				continue
			}
			pass.reserveForAlternative(room, alternative, slots)
			alternative.stable, alternative.assigned = room, true
		}

		//** One stable room per alternative via maximum matching
		pending := lo.Filter(alternatives, func(alternative *alternativeRooms, _ int) bool { return !alternative.assigned })
		matched, err := pass.matchStableRooms(pending, candidates, slots)
		if err != nil {
			return nil, fmt.Errorf("cannot match rooms of basket %v: %w", elective.basket, err)
		}
		for i, room := range matched {
			if room == "" {
				continue
			}
			alternative := pending[i]
			pass.reserveForAlternative(room, alternative, slots)
			alternative.stable, alternative.assigned = room, true
			pass.coordinator.SaveElectiveRoom(alternative.owner, room)
		}

		//** Per-slot fallback
		for _, alternative := range alternatives {
			if alternative.assigned {
				continue
			}
			pass.assignPerSlot(alternative, candidates, slots)
		}

		for _, alternative := range alternatives {
			rooms := pass.formatAlternativeRooms(alternative)
			if rooms == "" {
				pass.logger.Warn("elective alternative left without a room",
					zap.Int("basket", elective.basket),
					zap.String("course", alternative.course.Code),
				)
			}
			assignments = append(assignments, ElectiveRoom{
				Department: pass.department.Name,
				Half:       pass.half,
				Basket:     elective.basket,
				Key:        elective.placeholder.Code + "||" + alternative.course.Title,
				Code:       alternative.course.Code,
				Title:      alternative.course.Title,
				Rooms:      rooms,
			})
		}
	}
	return assignments, nil
}

// basketSlots returns the lecture/tutorial cells of a placeholder, or its lab cells when it has no lectures
func (pass *Pass) basketSlots(code string) (slots []daySlot, lectures bool) {
	lectureSlots, labSlots := make([]daySlot, 0), make([]daySlot, 0)
	for _, session := range pass.sessions {
		if session.Code != code {
			continue
		}
		for _, slot := range session.Slots {
			if session.SessionType == model.Practical {
				labSlots = append(labSlots, daySlot{session.Day, slot})
			} else {
				lectureSlots = append(lectureSlots, daySlot{session.Day, slot})
			}
		}
	}

	slots, lectures = labSlots, false
	if len(lectureSlots) > 0 {
		slots, lectures = lectureSlots, true
	}
	slots = lo.Uniq(slots)
	slices.SortFunc(slots, func(a, b daySlot) int {
		if a.day != b.day {
			return slices.Index(pass.input.Days, a.day) - slices.Index(pass.input.Days, b.day)
		}
		return a.slot - b.slot
	})
	return slots, lectures
}

// electiveCandidateRooms lists unrestricted classrooms for lecture baskets and labs before classrooms otherwise
func (pass *Pass) electiveCandidateRooms(lectures bool) []string {
	byCategory := func(category model.RoomCategory) []string {
		rooms := lo.FilterMap(pass.input.Rooms, func(room model.Room, _ int) (string, bool) {
			return room.Id, room.Category == category && room.Admits(false, false)
		})
		slices.Sort(rooms)
		return rooms
	}
	if lectures {
		return byCategory(model.Classroom)
	}
	return append(byCategory(model.Lab), byCategory(model.Classroom)...)
}

func (pass *Pass) electiveRoomAdmitted(room string) bool {
	found, ok := pass.rooms[strings.ToUpper(room)]
	return ok && found.Admits(false, false)
}

func (pass *Pass) freeForAlternative(room string, alternative *alternativeRooms, slots []daySlot) bool {
	return lo.EveryBy(slots, func(cell daySlot) bool {
		return pass.coordinator.RoomFree(pass.half, cell.day, []int{cell.slot}, room, alternative.owner.String())
	})
}

func (pass *Pass) reserveForAlternative(room string, alternative *alternativeRooms, slots []daySlot) {
	for _, cell := range slots {
		pass.coordinator.OccupyRoom(pass.half, cell.day, []int{cell.slot}, room, alternative.owner.String())
	}
}

// matchStableRooms returns, per pending alternative, a room free on every slot ("" when unmatched). The result
// is the lexicographically-first maximum matching with respect to alternative and room order
func (pass *Pass) matchStableRooms(pending []*alternativeRooms, rooms []string, slots []daySlot) ([]string, error) {
	matched := make([]string, len(pending))
	if len(pending) == 0 || len(rooms) == 0 {
		return matched, nil
	}

	edges := make(map[[2]int]bool)
	for i, alternative := range pending {
		for j, room := range rooms {
			edges[[2]int{i, j}] = pass.freeForAlternative(room, alternative, slots)
		}
	}

	allAlternatives := lo.Range(len(pending))
	allRooms := lo.Range(len(rooms))
	target, err := largestMatching(allAlternatives, allRooms, edges)
	if err != nil {
		return nil, err
	}

	assigned := 0
	available := allRooms
	for i := range pending {
		rest := allAlternatives[i+1:]
		for _, room := range available {
			if !edges[[2]int{i, room}] {
				continue
			}
			without := lo.Without(available, room)
			size, err := largestMatching(rest, without, edges)
			if err != nil {
				return nil, err
			}
			if assigned+1+size == target {
				matched[i] = rooms[room]
				available = without
				assigned++
				break
			}
		}
	}
	return matched, nil
}

func largestMatching(alternatives []int, rooms []int, edges map[[2]int]bool) (int, error) {
	if len(alternatives) == 0 || len(rooms) == 0 {
		return 0, nil
	}

	// Build neighbors predicate based on the free-room relationships
	neighbors := func(alternativeAny any, roomAny any) (bool, error) {
		return edges[[2]int{alternativeAny.(int), roomAny.(int)}], nil
	}

	alternativesAny := lo.Map(alternatives, func(alternative int, _ int) any { return alternative })
	roomsAny := lo.Map(rooms, func(room int, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(alternativesAny, roomsAny, neighbors)
	if err != nil {
		return 0, err
	}
	return len(graph.LargestMatching()), nil
}

// assignPerSlot reuses the last chosen room first, then the candidates, then any unrestricted room
func (pass *Pass) assignPerSlot(alternative *alternativeRooms, candidates []string, slots []daySlot) {
	fallback := lo.FilterMap(pass.input.Rooms, func(room model.Room, _ int) (string, bool) {
		return room.Id, room.Admits(false, false)
	})
	slices.Sort(fallback)

	last := ""
	for _, cell := range slots {
		ordered := candidates
		if last != "" {
			ordered = append([]string{last}, lo.Without(candidates, last)...)
		}
		free := func(room string) bool {
			return pass.coordinator.RoomFree(pass.half, cell.day, []int{cell.slot}, room, alternative.owner.String())
		}

		room, ok := lo.Find(ordered, free)
		if !ok {
			room, ok = lo.Find(fallback, free)
		}
		if !ok {
			continue
		}
		pass.coordinator.OccupyRoom(pass.half, cell.day, []int{cell.slot}, room, alternative.owner.String())
		alternative.perSlot = append(alternative.perSlot, lo.Entry[daySlot, string]{Key: cell, Value: room})
		last = room
	}

	rooms := lo.Uniq(lo.Map(alternative.perSlot, func(entry lo.Entry[daySlot, string], _ int) string { return entry.Value }))
	if len(rooms) == 1 && len(alternative.perSlot) == len(slots) {
		pass.coordinator.SaveElectiveRoom(alternative.owner, rooms[0])
	}
}

// formatAlternativeRooms renders "ROOM" or "R1 (Mon,Wed), R2 (Tue)" ordered by first day
func (pass *Pass) formatAlternativeRooms(alternative *alternativeRooms) string {
	if alternative.stable != "" {
		return alternative.stable
	}

	roomDays := make(map[string][]string)
	order := make([]string, 0)
	for _, entry := range alternative.perSlot {
		room, day := entry.Value, entry.Key.day
		if _, ok := roomDays[room]; !ok {
			order = append(order, room)
		}
		if !slices.Contains(roomDays[room], day) {
			roomDays[room] = append(roomDays[room], day)
		}
	}
	if len(order) == 1 {
		return order[0]
	}

	firstDay := func(room string) int {
		return lo.Min(lo.Map(roomDays[room], func(day string, _ int) int { return slices.Index(pass.input.Days, day) }))
	}
	slices.SortStableFunc(order, func(a, b string) int { return firstDay(a) - firstDay(b) })

	parts := lo.Map(order, func(room string, _ int) string {
		abbreviations := lo.Map(roomDays[room], func(day string, _ int) string { return abbreviate(day) })
		return fmt.Sprintf("%v (%v)", room, strings.Join(abbreviations, ","))
	})
	return strings.Join(parts, ", ")
}

func abbreviate(day string) string {
	runes := []rune(day)
	if len(runes) <= 3 {
		return day
	}
	return string(runes[:3])
}
