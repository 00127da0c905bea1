package coordinator

import (
	"fmt"
	"strings"

	"github.com/limaJavier/campus-timetabling/pkg/model"
)

// ElectiveKey identifies the slot template of one session type of a basket, shared by every department of a semester
type ElectiveKey struct {
	Semester    string
	Half        model.Half
	Basket      int
	SessionType model.SessionType
}

func (key ElectiveKey) String() string {
	return fmt.Sprintf("elective|%v|%v|%v|%v", key.Semester, key.Half, key.Basket, key.SessionType)
}

// RoomOwnerPrefix starts the room owner key of every alternative of the basket
func (key ElectiveKey) RoomOwnerPrefix() string {
	return fmt.Sprintf("elective-room|%v|%v|%v|", key.Semester, key.Half, key.Basket)
}

// CombinedKey identifies the slot template of one session type of a combined course within a cluster
type CombinedKey struct {
	Semester    string
	Cluster     string
	Half        model.Half
	Code        string
	SessionType model.SessionType
}

func (key CombinedKey) String() string {
	return fmt.Sprintf("combined|%v|%v|%v|%v|%v", key.Semester, key.Cluster, key.Half, key.Code, key.SessionType)
}

type RepresentativeKey struct {
	Semester string
	Half     model.Half
	Basket   int
}

func (key RepresentativeKey) String() string {
	return fmt.Sprintf("representative|%v|%v|%v", key.Semester, key.Half, key.Basket)
}

// ElectiveRoomKey identifies one alternative of a basket for room assignment purposes
type ElectiveRoomKey struct {
	Semester string
	Half     model.Half
	Basket   int
	Title    string
}

func NewElectiveRoomKey(semester string, half model.Half, basket int, title string) ElectiveRoomKey {
	return ElectiveRoomKey{
		Semester: semester,
		Half:     half,
		Basket:   basket,
		Title:    strings.ToLower(strings.TrimSpace(title)),
	}
}

func (key ElectiveRoomKey) String() string {
	return fmt.Sprintf("elective-room|%v|%v|%v|%v", key.Semester, key.Half, key.Basket, key.Title)
}

type StrengthKey struct {
	Semester string
	Cluster  string
	Code     string
}

func NewStrengthKey(semester, cluster, code string) StrengthKey {
	return StrengthKey{
		Semester: semester,
		Cluster:  cluster,
		Code:     strings.ToUpper(strings.TrimSpace(code)),
	}
}
