package model

import (
	"slices"
	"strings"
)

type RoomCategory int

const (
	Classroom RoomCategory = iota
	Lab
)

func (category RoomCategory) String() string {
	if category == Lab {
		return "Lab"
	}
	return "Classroom"
}

type UsageClass int

const (
	Unrestricted UsageClass = iota
	CompulsoryOnly
	CombinedOnly
)

func (class UsageClass) String() string {
	switch class {
	case CompulsoryOnly:
		return "CompulsoryOnly"
	case CombinedOnly:
		return "CombinedOnly"
	default:
		return "Unrestricted"
	}
}

type Room struct {
	Id       string
	Category RoomCategory
	Capacity int
	Usage    UsageClass
}

// RoomPolicy is the reserved-room table: which rooms are held back for compulsory or combined courses
type RoomPolicy struct {
	CompulsoryOnly []string
	CombinedOnly   []string
}

func DefaultRoomPolicy() RoomPolicy {
	return RoomPolicy{
		CompulsoryOnly: []string{"C002", "C003"},
		CombinedOnly:   []string{"C004"},
	}
}

func (policy RoomPolicy) usageOf(id string) UsageClass {
	match := func(candidate string) bool { return strings.EqualFold(strings.TrimSpace(candidate), id) }
	if slices.ContainsFunc(policy.CombinedOnly, match) {
		return CombinedOnly
	} else if slices.ContainsFunc(policy.CompulsoryOnly, match) {
		return CompulsoryOnly
	}
	return Unrestricted
}

// ClassifyRoom derives category from the naming convention ("L..." labs, "C..." classrooms).
// Rooms following neither convention are not schedulable and ok is false
func ClassifyRoom(id string, capacity int, policy RoomPolicy) (room Room, ok bool) {
	id = strings.TrimSpace(id)
	upper := strings.ToUpper(id)

	var category RoomCategory
	switch {
	case strings.HasPrefix(upper, "L"):
		category = Lab
	case strings.HasPrefix(upper, "C"):
		category = Classroom
	default:
		return Room{}, false
	}

	return Room{
		Id:       id,
		Category: category,
		Capacity: max(0, capacity),
		Usage:    policy.usageOf(upper),
	}, true
}

// Admits reports whether the room's usage class allows a course with the given classification
func (room Room) Admits(compulsory, combined bool) bool {
	switch room.Usage {
	case CombinedOnly:
		return combined && compulsory
	case CompulsoryOnly:
		return compulsory
	default:
		return true
	}
}

// Serves reports whether the room category matches the session type
func (room Room) Serves(sessionType SessionType) bool {
	if sessionType == Practical {
		return room.Category == Lab
	}
	return room.Category == Classroom
}
