package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRoom(t *testing.T) {
	policy := DefaultRoomPolicy()

	lab, ok := ClassifyRoom("L101", 40, policy)
	assert.True(t, ok)
	assert.Equal(t, Lab, lab.Category)
	assert.Equal(t, Unrestricted, lab.Usage)

	combined, ok := ClassifyRoom(" c004 ", 150, policy)
	assert.True(t, ok)
	assert.Equal(t, "c004", combined.Id)
	assert.Equal(t, Classroom, combined.Category)
	assert.Equal(t, CombinedOnly, combined.Usage)

	compulsory, _ := ClassifyRoom("C002", -5, policy)
	assert.Equal(t, CompulsoryOnly, compulsory.Usage)
	assert.Equal(t, 0, compulsory.Capacity)

	_, ok = ClassifyRoom("Auditorium", 300, policy)
	assert.False(t, ok)
}

func TestRoomAdmits(t *testing.T) {
	tests := []struct {
		usage      UsageClass
		compulsory bool
		combined   bool
		expected   bool
	}{
		{Unrestricted, false, false, true},
		{CompulsoryOnly, true, false, true},
		{CompulsoryOnly, false, false, false},
		{CombinedOnly, true, true, true},
		{CombinedOnly, true, false, false},
		{CombinedOnly, false, true, false},
	}

	for _, test := range tests {
		room := Room{Id: "C001", Usage: test.usage}
		assert.Equal(t, test.expected, room.Admits(test.compulsory, test.combined), "%v %v %v", test.usage, test.compulsory, test.combined)
	}
}

func TestRoomServes(t *testing.T) {
	classroom := Room{Category: Classroom}
	lab := Room{Category: Lab}

	assert.True(t, classroom.Serves(Lecture))
	assert.True(t, classroom.Serves(Tutorial))
	assert.False(t, classroom.Serves(Practical))
	assert.True(t, lab.Serves(Practical))
	assert.False(t, lab.Serves(Lecture))
}
