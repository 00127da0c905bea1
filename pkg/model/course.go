package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var ErrMalformedCredits = errors.New("malformed L-T-P-S-C credit string")

type SessionType string

const (
	Lecture   SessionType = "L"
	Tutorial  SessionType = "T"
	Practical SessionType = "P"
)

func (sessionType SessionType) String() string {
	switch sessionType {
	case Lecture:
		return "Lecture"
	case Tutorial:
		return "Tutorial"
	case Practical:
		return "Lab"
	default:
		return string(sessionType)
	}
}

// Half is a scheduling window of the semester
type Half string

const (
	FirstHalf  Half = "First_Half"
	SecondHalf Half = "Second_Half"
)

var Halves = []Half{FirstHalf, SecondHalf}

// Membership is the per-course half flag
type Membership string

const (
	MemberFirst  Membership = "1"
	MemberSecond Membership = "2"
	MemberBoth   Membership = "0"
)

func ParseMembership(raw string) Membership {
	switch strings.TrimSpace(raw) {
	case "1":
		return MemberFirst
	case "2":
		return MemberSecond
	default:
		return MemberBoth
	}
}

func (membership Membership) In(half Half) bool {
	switch half {
	case FirstHalf:
		return membership == MemberFirst || membership == MemberBoth
	case SecondHalf:
		return membership == MemberSecond || membership == MemberBoth
	}
	return true
}

// Credits is the parsed "L-T-P-S-C" hour structure
type Credits struct {
	Lecture   int
	Tutorial  int
	Practical int
	SelfStudy int
	Credit    int
	Raw       string
}

func ParseCredits(raw string) (Credits, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, "-")
	if len(parts) != 5 {
		return Credits{Raw: raw}, fmt.Errorf("%w: %q has %d components", ErrMalformedCredits, raw, len(parts))
	}

	values := make([]int, 5)
	for i, part := range parts {
		value, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || value < 0 {
			return Credits{Raw: raw}, fmt.Errorf("%w: %q component %d is not a non-negative integer", ErrMalformedCredits, raw, i+1)
		}
		values[i] = value
	}

	return Credits{
		Lecture:   values[0],
		Tutorial:  values[1],
		Practical: values[2],
		SelfStudy: values[3],
		Credit:    values[4],
		Raw:       raw,
	}, nil
}

// Hours returns the weekly requirement of a session type
func (credits Credits) Hours(sessionType SessionType) float64 {
	switch sessionType {
	case Lecture:
		return float64(credits.Lecture)
	case Tutorial:
		return float64(credits.Tutorial)
	case Practical:
		return float64(credits.Practical)
	}
	return 0
}

type Course struct {
	Code       string
	Title      string
	Faculty    []string
	Credits    Credits
	Membership Membership
	Elective   bool
	Basket     int
	Combined   bool
	Students   int
}

func SplitFaculty(raw string) []string {
	tokens := lo.Map(strings.Split(raw, "/"), func(token string, _ int) string { return strings.TrimSpace(token) })
	return lo.Uniq(lo.Compact(tokens))
}

func (course Course) FacultyString() string {
	return strings.Join(course.Faculty, "/")
}

// Compulsory courses are every non-elective course
func (course Course) Compulsory() bool {
	return !course.Elective
}

// Difficulty orders courses so that harder-to-place ones go first: lab hours, then the remaining contact hours
func (course Course) Difficulty() (labHours int, contactHours int) {
	return course.Credits.Practical, course.Credits.Lecture + course.Credits.Tutorial + course.Credits.SelfStudy
}
