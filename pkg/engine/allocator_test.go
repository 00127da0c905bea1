package engine

import (
	"testing"

	"github.com/limaJavier/campus-timetabling/pkg/coordinator"
	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleDepartment(courses ...model.RawCourse) model.RawDepartment {
	return model.RawDepartment{Name: "CSE-1-A", Courses: courses}
}

func TestAllocateSearch(t *testing.T) {
	t.Run("Tightest window wins over earlier ones with more waste", func(t *testing.T) {
		//** Arrange
		slots := []model.RawSlot{
			{Start: "09:00", End: "10:00"},
			{Start: "10:00", End: "11:00"},
			{Start: "11:00", End: "12:30"},
		}
		input := buildInput(t, slots, []model.RawRoom{room("C101", 60)}, singleDepartment())
		pass := newTestPass(input, 0, coordinator.New())

		//** Act
		allocation, ok := pass.Allocate(Request{
			Days:        []string{"Monday"},
			Faculty:     []string{"Dr. A"},
			Code:        "CS101",
			Duration:    1.5,
			SessionType: model.Lecture,
		})

		//** Assert
		require.True(t, ok)
		assert.Equal(t, []int{2}, allocation.Slots)
		assert.Equal(t, "C101", allocation.Room)
		assert.Equal(t, "CS101 (C101)", pass.Grid().Cell("Monday", 2).Text)
	})

	t.Run("Ties keep the earliest window and excluded slots are skipped", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60)}, singleDepartment())
		pass := newTestPass(input, 0, coordinator.New())

		//** Act
		allocation, ok := pass.Allocate(Request{
			Days:        []string{"Tuesday"},
			Code:        "CS101",
			Duration:    1.5,
			SessionType: model.Lecture,
		})

		//** Assert
		require.True(t, ok)
		assert.Equal(t, "Tuesday", allocation.Day)
		assert.Equal(t, []int{1, 2, 3}, allocation.Slots)
		assert.Equal(t, model.Break, pass.Grid().Cell("Tuesday", 4).Kind)
		assert.Len(t, pass.Entries(), 3)
	})

	t.Run("Days are tried in order", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60)}, singleDepartment())
		shared := coordinator.New()
		shared.OccupyFaculty(model.FirstHalf, "Wednesday", slotRange(1, 17), []string{"Dr. A"}, "")
		pass := newTestPass(input, 0, shared)

		//** Act
		allocation, ok := pass.Allocate(Request{
			Days:        []string{"Wednesday", "Friday"},
			Faculty:     []string{"Dr. A"},
			Code:        "CS101",
			Duration:    1,
			SessionType: model.Tutorial,
		})

		//** Assert
		require.True(t, ok)
		assert.Equal(t, "Friday", allocation.Day)
		assert.Equal(t, "CS101T (C101)", pass.Entries()[0].Display)
	})
}

func TestAllocateRejections(t *testing.T) {
	lecture := Request{Days: []string{"Monday"}, Code: "CS101", Duration: 1.5, SessionType: model.Lecture}

	t.Run("A course component is placed at most once per day", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60)}, singleDepartment())
		pass := newTestPass(input, 0, coordinator.New())
		_, ok := pass.Allocate(lecture)
		require.True(t, ok)

		//** Act
		tutorial := lecture
		tutorial.SessionType = model.Tutorial
		tutorial.Duration = 1
		_, again := pass.Allocate(tutorial)

		//** Assert
		assert.False(t, again)
	})

	t.Run("One lab per day", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("L101", 60)}, singleDepartment())
		pass := newTestPass(input, 0, coordinator.New())
		lab := Request{Days: []string{"Monday"}, Code: "CS101", Duration: 2, SessionType: model.Practical}
		allocation, ok := pass.Allocate(lab)
		require.True(t, ok)
		assert.Equal(t, "L101", allocation.Room)

		//** Act
		other := lab
		other.Code = "CS102"
		_, again := pass.Allocate(other)

		//** Assert
		assert.False(t, again)
		assert.Equal(t, "CS101 (Lab-L101)", pass.Entries()[0].Display)
	})

	t.Run("No room of the right category", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60)}, singleDepartment())
		pass := newTestPass(input, 0, coordinator.New())

		//** Act
		_, ok := pass.Allocate(Request{Days: input.Days, Code: "CS101", Duration: 2, SessionType: model.Practical})

		//** Assert
		assert.False(t, ok)
		assert.Empty(t, pass.Entries())
	})

	t.Run("Capacity floor", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60), room("C102", 90)}, singleDepartment())
		pass := newTestPass(input, 0, coordinator.New())
		request := lecture
		request.MinCapacity = 80

		//** Act
		allocation, ok := pass.Allocate(request)

		//** Assert
		require.True(t, ok)
		assert.Equal(t, "C102", allocation.Room)
	})

	t.Run("Combined-only room is never used by a regular course", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C004", 200)}, singleDepartment())
		pass := newTestPass(input, 0, coordinator.New())

		//** Act
		_, regular := pass.Allocate(lecture)
		combined := lecture
		combined.Code = "MA101"
		combined.Combined = true
		allocation, ok := pass.Allocate(combined)

		//** Assert
		assert.False(t, regular)
		require.True(t, ok)
		assert.Equal(t, "C004", allocation.Room)
	})

	t.Run("Forced window must be free", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60)}, singleDepartment())
		pass := newTestPass(input, 0, coordinator.New())
		_, ok := pass.Allocate(lecture)
		require.True(t, ok)

		//** Act
		forced := lecture
		forced.Code = "CS102"
		forced.Forced = []int{3, 4, 5}
		_, onOccupied := pass.Allocate(forced)
		forced.Forced = []int{5, 6, 7}
		allocation, onFree := pass.Allocate(forced)

		//** Assert
		assert.False(t, onOccupied)
		require.True(t, onFree)
		assert.Equal(t, []int{5, 6, 7}, allocation.Slots)
	})

	t.Run("A required room is never swapped for another one", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60), room("C102", 60)}, singleDepartment())
		shared := coordinator.New()
		shared.OccupyRoom(model.FirstHalf, "Monday", slotRange(1, 17), "C101", "other")
		pass := newTestPass(input, 0, shared)
		request := lecture
		request.PreferredRoom = "C101"

		//** Act
		required := request
		required.RequireRoom = true
		_, onRequired := pass.Allocate(required)
		allocation, onPreferred := pass.Allocate(request)

		//** Assert
		assert.False(t, onRequired)
		require.True(t, onPreferred)
		assert.Equal(t, "C102", allocation.Room)
	})

	t.Run("Busy faculty", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60)}, singleDepartment())
		shared := coordinator.New()
		shared.OccupyFaculty(model.FirstHalf, "Monday", slotRange(1, 17), []string{"Dr. B"}, "")
		pass := newTestPass(input, 0, shared)
		request := lecture
		request.Faculty = []string{"Dr. A", "Dr. B"}

		//** Act
		_, ok := pass.Allocate(request)

		//** Assert
		assert.False(t, ok)
	})
}

func TestAllocateElectives(t *testing.T) {
	placeholder := Request{
		Days:        []string{"Monday"},
		Code:        "Elective_1",
		Duration:    1.5,
		SessionType: model.Lecture,
		Elective:    true,
		MinRooms:    2,
		OwnerKey:    "elective|3|First_Half|1|L",
	}

	t.Run("Placeholders take no room and reserve their slots for the semester", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60), room("C102", 60)}, model.RawDepartment{Name: "CSE-3-A"})
		shared := coordinator.New()
		pass := newTestPass(input, 0, shared)

		//** Act
		allocation, ok := pass.Allocate(placeholder)

		//** Assert
		require.True(t, ok)
		assert.Equal(t, "", allocation.Room)
		assert.Equal(t, "Elective_1", pass.Entries()[0].Display)
		assert.True(t, shared.CrossSemesterBlocked("5", "Monday", 1))
	})

	t.Run("Parallel room headroom", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60), room("C102", 60)}, model.RawDepartment{Name: "CSE-3-A"})
		shared := coordinator.New()
		shared.OccupyRoom(model.FirstHalf, "Monday", slotRange(1, 17), "C101", "")
		pass := newTestPass(input, 0, shared)

		//** Act
		_, ok := pass.Allocate(placeholder)

		//** Assert
		assert.False(t, ok)
	})

	t.Run("Cross-semester reservations are soft", func(t *testing.T) {
		//** Arrange
		input := buildInput(t, campusSlots(), []model.RawRoom{room("C101", 60), room("C102", 60)}, model.RawDepartment{Name: "CSE-3-A"})
		shared := coordinator.New()
		shared.ReserveElectiveSlots("5", "Monday", slotRange(1, 17))
		pass := newTestPass(input, 0, shared)

		//** Act
		_, strict := pass.Allocate(placeholder)
		relaxed := placeholder
		relaxed.RelaxCrossSemester = true
		_, ok := pass.Allocate(relaxed)

		//** Assert
		assert.False(t, strict)
		assert.True(t, ok)
	})
}

func TestDisplayText(t *testing.T) {
	assert.Equal(t, "CS101 (C101)", DisplayText("CS101", model.Lecture, "C101"))
	assert.Equal(t, "CS101T (C101)", DisplayText("CS101", model.Tutorial, "C101"))
	assert.Equal(t, "CS101 (Lab-L101)", DisplayText("CS101", model.Practical, "L101"))
	assert.Equal(t, "Elective_2", DisplayText("Elective_2", model.Lecture, ""))
	assert.Equal(t, "Elective_2T", DisplayText("Elective_2", model.Tutorial, ""))
	assert.Equal(t, "Elective_2 (Lab)", DisplayText("Elective_2", model.Practical, ""))
}

// slotRange returns the slot positions [from, to)
func slotRange(from, to int) []int {
	slots := make([]int, 0, to-from)
	for slot := from; slot < to; slot++ {
		slots = append(slots, slot)
	}
	return slots
}
