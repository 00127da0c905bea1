package engine

import (
	"fmt"
	"testing"

	"github.com/limaJavier/campus-timetabling/pkg/coordinator"
	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/stretchr/testify/require"
)

// identityShuffler leaves every order untouched
type identityShuffler struct{}

func (identityShuffler) Shuffle(int, func(i, j int)) {}

// campusSlots is the usual day: an excluded early slot, half-hour slots until 13:00, the excluded lunch
// slot and half-hour slots until 18:00
func campusSlots() []model.RawSlot {
	slots := []model.RawSlot{{Start: "07:30", End: "09:00"}}
	halfHours := func(from, to int) {
		for minutes := from; minutes < to; minutes += 30 {
			slots = append(slots, model.RawSlot{
				Start: fmt.Sprintf("%02d:%02d", minutes/60, minutes%60),
				End:   fmt.Sprintf("%02d:%02d", (minutes+30)/60, (minutes+30)%60),
			})
		}
	}
	halfHours(9*60, 13*60)
	slots = append(slots, model.RawSlot{Start: "13:15", End: "14:00"})
	halfHours(14*60, 18*60)
	return slots
}

func room(id string, capacity int) model.RawRoom {
	return model.RawRoom{Id: id, Capacity: fmt.Sprint(capacity)}
}

func course(code, faculty, credits, half string) model.RawCourse {
	return model.RawCourse{Code: code, Title: code + " title", Faculty: faculty, Credits: credits, Half: half}
}

func combinedCourse(code, faculty, credits, half string, students int) model.RawCourse {
	raw := course(code, faculty, credits, half)
	raw.Combined = "1"
	raw.Students = fmt.Sprint(students)
	return raw
}

func electiveCourse(code, title, faculty, credits, half string, basket int) model.RawCourse {
	raw := course(code, faculty, credits, half)
	raw.Title = title
	raw.Elective = "1"
	raw.Basket = fmt.Sprint(basket)
	return raw
}

func buildInput(t *testing.T, slots []model.RawSlot, rooms []model.RawRoom, departments ...model.RawDepartment) model.ModelInput {
	t.Helper()
	input, err := model.ProcessRawInput(model.RawModelInput{
		Slots:       slots,
		Rooms:       rooms,
		Departments: departments,
	}, model.InputOptions{
		ExcludedSlots: model.DefaultExcludedSlots,
		Policy:        model.DefaultRoomPolicy(),
		Clusters:      model.DefaultClusters,
	})
	require.NoError(t, err)
	return input
}

func newTestPass(input model.ModelInput, department int, shared *coordinator.Coordinator) *Pass {
	return NewPass(input.Departments[department], model.FirstHalf, input, shared, Options{Shuffler: identityShuffler{}})
}

// campusInput is a semester-3 cluster setup with aligned electives, a combined course and regular load
func campusInput(t *testing.T) model.ModelInput {
	rooms := []model.RawRoom{
		room("C002", 120), room("C003", 120), room("C004", 150),
		room("C101", 70), room("C102", 70), room("C103", 70), room("C104", 70),
		room("C105", 70), room("C106", 70), room("C107", 70), room("C108", 70),
		room("L101", 40), room("L102", 40), room("L103", 40), room("L104", 40),
		room("Auditorium", 300),
	}

	electives := func() []model.RawCourse {
		return []model.RawCourse{
			electiveCourse("EL301", "Robotics", "Dr. Rao", "2-1-0-0-3", "0", 1),
			electiveCourse("EL302", "Graphics", "Dr. Sen", "2-1-0-0-3", "0", 1),
			electiveCourse("EL311", "Cryptography", "Dr. Iyer", "2-0-2-0-3", "0", 2),
			electiveCourse("EL312", "Blockchain", "Dr. Das", "2-0-2-0-3", "0", 2),
		}
	}
	department := func(name, prefix string, extra ...model.RawCourse) model.RawDepartment {
		courses := append(electives(),
			course(prefix+"201", "Dr. "+prefix+" One", "3-1-2-0-5", "0"),
			course(prefix+"202", "Dr. "+prefix+" Two", "3-0-0-0-3", "1"),
			course(prefix+"203", "Dr. "+prefix+" Three", "2-1-0-0-3", "2"),
		)
		return model.RawDepartment{Name: name, Courses: append(courses, extra...)}
	}

	return buildInput(t, campusSlots(), rooms,
		department("CSE-3-A", "CSA", combinedCourse("MA301", "Dr. Bose", "3-1-0-0-4", "0", 60)),
		department("CSE-3-B", "CSB", combinedCourse("MA301", "Dr. Bose", "3-1-0-0-4", "0", 55)),
		department("DSAI-3", "DSA", combinedCourse("MA302", "Dr. Pal", "3-1-0-0-4", "0", 40)),
		department("ECE-3", "ECE", combinedCourse("MA302", "Dr. Pal", "3-1-0-0-4", "0", 50)),
	)
}
