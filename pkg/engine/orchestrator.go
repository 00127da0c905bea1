package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/limaJavier/campus-timetabling/pkg/coordinator"
	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var sessionTypes = []model.SessionType{model.Lecture, model.Tutorial, model.Practical}

type chosenElective struct {
	basket         int
	placeholder    model.Course
	representative model.Course
	alternatives   []model.Course
}

type component struct {
	course      model.Course
	sessionType model.SessionType
	elective    bool
	basket      int
	minRooms    int
	combined    bool
	minCapacity int
}

// Run schedules every course of the department that belongs to the pass half: elective placeholders
// first, then combined courses, then the rest, the latter two ordered hardest first
func (pass *Pass) Run() {
	courses := lo.Filter(pass.department.Courses, func(course model.Course, _ int) bool {
		return course.Membership.In(pass.half)
	})
	electives, nonElectives := lo.FilterReject(courses, func(course model.Course, _ int) bool { return course.Elective })

	//** Elective placeholders
	baskets := lo.GroupBy(electives, func(course model.Course) int { return course.Basket })
	basketIds := lo.Keys(baskets)
	slices.Sort(basketIds)
	for _, basket := range basketIds {
		alternatives := baskets[basket]
		if basket == 0 {
			// Electives without a basket cannot be aligned across departments
			for _, course := range alternatives {
				pass.logger.Warn("elective has no basket", zap.String("course", course.Code))
				for _, sessionType := range sessionTypes {
					pass.recordDeficit(course, sessionType, course.Credits.Hours(sessionType))
				}
			}
			continue
		}

		key := coordinator.RepresentativeKey{Semester: pass.department.SemesterGroup, Half: pass.half, Basket: basket}
		representative, ok := pass.coordinator.PickRepresentative(key, alternatives)
		if !ok {
			continue
		}
		pass.electives = append(pass.electives, chosenElective{
			basket:         basket,
			representative: representative,
			alternatives:   alternatives,
			placeholder: model.Course{
				Code:       fmt.Sprintf("Elective_%d", basket),
				Title:      representative.Title,
				Faculty:    representative.Faculty,
				Credits:    representative.Credits,
				Membership: representative.Membership,
				Elective:   true,
				Basket:     basket,
			},
		})
	}

	combined, regular := lo.FilterReject(nonElectives, func(course model.Course, _ int) bool { return course.Combined })
	byDifficulty := func(a, b model.Course) int {
		aLab, aContact := a.Difficulty()
		bLab, bContact := b.Difficulty()
		if c := cmp.Compare(bLab, aLab); c != 0 {
			return c
		}
		return cmp.Compare(bContact, aContact)
	}
	slices.SortStableFunc(combined, byDifficulty)
	slices.SortStableFunc(regular, byDifficulty)

	for _, elective := range pass.electives {
		pass.scheduleCourse(elective.placeholder, true, len(elective.alternatives))
	}
	for _, course := range combined {
		pass.scheduleCourse(course, false, 1)
	}
	for _, course := range regular {
		pass.scheduleCourse(course, false, 1)
	}
}

func (pass *Pass) scheduleCourse(course model.Course, elective bool, minRooms int) {
	combined := course.Combined && !elective

	requiredCapacity := 0
	if combined {
		strength := pass.coordinator.CombinedStrength(pass.department.SemesterGroup, pass.department.Cluster, course.Code)
		requiredCapacity = max(course.Students, strength)
	}

	for _, sessionType := range sessionTypes {
		minCapacity := requiredCapacity
		if sessionType == model.Practical {
			minCapacity = 0
		}
		pass.scheduleComponent(component{
			course:      course,
			sessionType: sessionType,
			elective:    elective,
			basket:      course.Basket,
			minRooms:    minRooms,
			combined:    combined,
			minCapacity: minCapacity,
		})
	}
}

func (pass *Pass) scheduleComponent(component component) {
	course, sessionType := component.course, component.sessionType
	remaining := course.Credits.Hours(sessionType)
	if remaining <= 0 {
		return
	}

	request := Request{
		Faculty:     course.Faculty,
		Code:        course.Code,
		SessionType: sessionType,
		Elective:    component.elective,
		Combined:    component.combined,
		MinRooms:    component.minRooms,
		MinCapacity: component.minCapacity,
	}

	var (
		placements     []coordinator.Placement
		templateExists bool
		record         func(coordinator.Placement)
	)
	switch {
	case component.elective:
		key := coordinator.ElectiveKey{Semester: pass.department.SemesterGroup, Half: pass.half, Basket: component.basket, SessionType: sessionType}
		request.OwnerKey = key.String()
		request.BasketRoomPrefix = key.RoomOwnerPrefix()
		placements, templateExists = pass.coordinator.ElectiveTemplate(key)
		record = func(placement coordinator.Placement) { pass.coordinator.RecordElective(key, pass.department.Name, placement) }
	case component.combined:
		key := coordinator.CombinedKey{Semester: pass.department.SemesterGroup, Cluster: pass.department.Cluster, Half: pass.half, Code: course.Code, SessionType: sessionType}
		request.OwnerKey = key.String()
		placements, templateExists = pass.coordinator.CombinedTemplate(key)
		record = func(placement coordinator.Placement) { pass.coordinator.RecordCombined(key, pass.department.Name, placement) }
	}

	//** Replay template
	for _, placement := range placements {
		if remaining <= epsilon {
			break
		}
		replay := request
		replay.Days = []string{placement.Day}
		replay.Forced = placement.Slots
		replay.Duration = pass.input.Slots.Duration(placement.Slots)
		if component.combined {
			replay.PreferredRoom = placement.Room
			replay.RequireRoom = true
		}

		allocation, ok := pass.Allocate(replay)
		if !ok && component.elective {
			replay.RelaxCrossSemester = true
			allocation, ok = pass.Allocate(replay)
		}
		if !ok {
			pass.logger.Debug("template replay failed",
				zap.String("course", course.Code),
				zap.String("type", sessionType.String()),
				zap.String("day", placement.Day),
			)
			pass.options.Recorder.ReplayFailed(pass.department.Name, sessionType)
			continue
		}

		credit := min(placement.Hours, remaining)
		remaining -= credit
		pass.recordSession(allocation, request, credit)
	}

	//** Bounded stochastic search
	for attempt := 0; remaining > epsilon && attempt < pass.options.MaxAttempts; attempt++ {
		days := pass.dayOrder(sessionType)
		if len(days) == 0 {
			break
		}
		chunk := chunkSize(sessionType, remaining)

		search := request
		search.Days = days
		search.Duration = chunk
		allocation, ok := pass.Allocate(search)
		if !ok && component.elective {
			search.RelaxCrossSemester = true
			allocation, ok = pass.Allocate(search)
		}
		// Feasibility does not depend on the day order, so a failed round cannot succeed later
		if !ok {
			break
		}

		remaining -= chunk
		pass.recordSession(allocation, request, chunk)
		if record != nil && !templateExists {
			record(coordinator.Placement{Day: allocation.Day, Slots: allocation.Slots, Room: allocation.Room, Hours: chunk})
		}
	}

	if remaining > epsilon {
		pass.recordDeficit(course, sessionType, remaining)
	}
}

// dayOrder shuffles the days of the pass; labs only consider days without a lab yet
func (pass *Pass) dayOrder(sessionType model.SessionType) []string {
	days := slices.Clone(pass.input.Days)
	if sessionType == model.Practical {
		days = lo.Filter(days, func(day string, _ int) bool { return !pass.labDays[day] })
	}
	pass.options.Shuffler.Shuffle(len(days), func(i, j int) { days[i], days[j] = days[j], days[i] })
	return days
}

func chunkSize(sessionType model.SessionType, remaining float64) float64 {
	switch sessionType {
	case model.Lecture:
		return min(1.5, remaining)
	case model.Practical:
		return min(2, remaining)
	default:
		return min(1, remaining)
	}
}

func (pass *Pass) recordSession(allocation Allocation, request Request, hours float64) {
	pass.sessions = append(pass.sessions, Session{
		Department:  pass.department.Name,
		Half:        pass.half,
		Code:        request.Code,
		SessionType: request.SessionType,
		Day:         allocation.Day,
		Slots:       slices.Clone(allocation.Slots),
		Room:        allocation.Room,
		Hours:       hours,
		OwnerKey:    request.OwnerKey,
	})
	pass.options.Recorder.SessionPlaced(pass.department.Name, request.SessionType, hours)
}

func (pass *Pass) recordDeficit(course model.Course, sessionType model.SessionType, remaining float64) {
	if remaining <= epsilon {
		return
	}
	pass.deficits = append(pass.deficits, model.Deficit{
		Department:     pass.department.Name,
		Half:           pass.half,
		Code:           course.Code,
		Title:          course.Title,
		Faculty:        course.FacultyString(),
		SessionType:    sessionType,
		RemainingHours: remaining,
		Membership:     course.Membership,
	})
	pass.logger.Warn("requirement not met",
		zap.String("course", course.Code),
		zap.String("type", sessionType.String()),
		zap.Float64("remaining_hours", remaining),
	)
	pass.options.Recorder.DeficitRecorded(pass.department.Name, sessionType, remaining)
}
