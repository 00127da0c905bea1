package model

import "fmt"

type CellKind int

const (
	Empty CellKind = iota
	Break
	Occupied
)

type Cell struct {
	Kind CellKind
	Text string
}

// Grid is the Day x TimeSlot matrix of one (department, half) pass. It is owned by that pass only
type Grid struct {
	Department string
	Half       Half
	days       []string
	dayIndex   map[string]int
	slots      *SlotTable
	cells      [][]Cell
}

func NewGrid(department string, half Half, days []string, slots *SlotTable) *Grid {
	grid := &Grid{
		Department: department,
		Half:       half,
		days:       days,
		dayIndex:   make(map[string]int, len(days)),
		slots:      slots,
		cells:      make([][]Cell, len(days)),
	}
	for i, day := range days {
		grid.dayIndex[day] = i
		grid.cells[i] = make([]Cell, slots.Len())
	}
	return grid
}

func (grid *Grid) Days() []string { return grid.days }

func (grid *Grid) Slots() *SlotTable { return grid.slots }

func (grid *Grid) Cell(day string, slot int) Cell {
	return grid.cells[grid.mustDay(day)][slot]
}

func (grid *Grid) IsEmpty(day string, slot int) bool {
	return grid.Cell(day, slot).Kind == Empty
}

func (grid *Grid) Occupy(day string, slot int, text string) {
	grid.cells[grid.mustDay(day)][slot] = Cell{Kind: Occupied, Text: text}
}

// MarkBreak turns an empty cell into a break; returns false if the cell was not empty
func (grid *Grid) MarkBreak(day string, slot int) bool {
	row := grid.mustDay(day)
	if grid.cells[row][slot].Kind != Empty {
		return false
	}
	grid.cells[row][slot] = Cell{Kind: Break, Text: "BREAK"}
	return true
}

// FreeBlocks returns the maximal runs of empty, non-excluded slots of a day
func (grid *Grid) FreeBlocks(day string) [][]int {
	row := grid.cells[grid.mustDay(day)]
	blocks := make([][]int, 0)
	block := make([]int, 0)
	for i, cell := range row {
		if cell.Kind == Empty && !grid.slots.Excluded(i) {
			block = append(block, i)
			continue
		}
		if len(block) > 0 {
			blocks = append(blocks, block)
			block = make([]int, 0)
		}
	}
	if len(block) > 0 {
		blocks = append(blocks, block)
	}
	return blocks
}

func (grid *Grid) mustDay(day string) int {
	i, ok := grid.dayIndex[day]
	if !ok {
		panic(fmt.Sprintf("grid %v/%v has no day %q", grid.Department, grid.Half, day))
	}
	return i
}
