package coordinator

import "slices"

// Placement is one committed chunk of a template: the day, the slot positions, the room (empty for
// elective placeholders) and the hours it credits to whoever replays it
type Placement struct {
	Day   string
	Slots []int
	Room  string
	Hours float64
}

func (placement Placement) equal(other Placement) bool {
	return placement.Day == other.Day && placement.Room == other.Room && slices.Equal(placement.Slots, other.Slots)
}

type template struct {
	owner      string
	placements []Placement
}

// templateStore implements first-writer-wins templates: the department that creates a key is the only
// one allowed to append chunks to it
type templateStore[K comparable] struct {
	templates map[K]*template
	order     []K
}

func newTemplateStore[K comparable]() *templateStore[K] {
	return &templateStore[K]{templates: make(map[K]*template)}
}

func (store *templateStore[K]) get(key K) ([]Placement, bool) {
	template, ok := store.templates[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(template.placements), true
}

func (store *templateStore[K]) append(key K, owner string, placement Placement) bool {
	existing, ok := store.templates[key]
	if !ok {
		existing = &template{owner: owner}
		store.templates[key] = existing
		store.order = append(store.order, key)
	} else if existing.owner != owner {
		return false
	}

	if slices.ContainsFunc(existing.placements, placement.equal) {
		return true
	}
	placement.Slots = slices.Clone(placement.Slots)
	existing.placements = append(existing.placements, placement)
	return true
}

func (store *templateStore[K]) owner(key K) (string, bool) {
	template, ok := store.templates[key]
	if !ok {
		return "", false
	}
	return template.owner, true
}

// snapshot lists the templates in creation order
func (store *templateStore[K]) snapshot() []TemplateRecord[K] {
	records := make([]TemplateRecord[K], 0, len(store.order))
	for _, key := range store.order {
		template := store.templates[key]
		records = append(records, TemplateRecord[K]{
			Key:        key,
			Owner:      template.owner,
			Placements: slices.Clone(template.placements),
		})
	}
	return records
}

type TemplateRecord[K comparable] struct {
	Key        K
	Owner      string
	Placements []Placement
}
