package engine

import (
	"strings"

	"github.com/limaJavier/campus-timetabling/pkg/model"
	"github.com/samber/lo"
)

// pickRoom resolves the room of a window. Order: the preferred room, the combined-only room for combined
// non-lab sessions, the room the course already uses, then the remaining rooms of the category in shuffled order
func (pass *Pass) pickRoom(day string, slots []int, request Request) (string, bool) {
	usable := func(room model.Room) bool {
		return room.Serves(request.SessionType) &&
			room.Admits(!request.Elective, request.Combined) &&
			room.Capacity >= request.MinCapacity &&
			pass.coordinator.RoomFree(pass.half, day, slots, room.Id, request.OwnerKey)
	}

	if request.PreferredRoom != "" {
		if room, ok := pass.rooms[strings.ToUpper(strings.TrimSpace(request.PreferredRoom))]; ok && usable(room) {
			return room.Id, true
		} else if request.RequireRoom {
			return "", false
		}
	}

	if request.Combined && request.SessionType != model.Practical {
		if room, ok := lo.Find(pass.input.Rooms, func(room model.Room) bool {
			return room.Usage == model.CombinedOnly && usable(room)
		}); ok {
			return room.Id, true
		}
	}

	if mapped, ok := pass.courseRooms[request.Code]; ok {
		if room, ok := pass.rooms[strings.ToUpper(mapped)]; ok && usable(room) {
			return room.Id, true
		}
	}

	candidates := lo.Filter(pass.input.Rooms, func(room model.Room, _ int) bool { return room.Serves(request.SessionType) })
	pass.options.Shuffler.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if room, ok := lo.Find(candidates, usable); ok {
		return room.Id, true
	}
	return "", false
}
