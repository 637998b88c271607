package scene

// MaxObjectsPerCell keeps Cell at 64 bytes with uint32 slots
// 15 * 4 (Slots) + 1 (Count) + 3 (Padding) = 64 bytes
const MaxObjectsPerCell = 15

// Cell holds indices into the scene's object slice
type Cell struct {
	Count uint8
	_     [3]byte
	Slots [MaxObjectsPerCell]uint32
}

// Grid is a dense 2D bucket grid over the floor plane (x, z), rebuilt every frame
type Grid struct {
	Width  int
	Height int
	Cells  []Cell // index = z*Width + x
}

// NewGrid creates a grid with the given number of columns and rows
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]Cell, width*height),
	}
}

// Add inserts an object index at (x, z)
// Returns false if out of bounds or the cell is full (soft clip)
func (g *Grid) Add(idx uint32, x, z int) bool {
	if x < 0 || x >= g.Width || z < 0 || z >= g.Height {
		return false
	}
	cell := &g.Cells[z*g.Width+x]
	if cell.Count >= MaxObjectsPerCell {
		return false
	}
	cell.Slots[cell.Count] = idx
	cell.Count++
	return true
}

// At returns a view of the indices stored at (x, z)
// The slice aliases grid memory and is invalidated by Clear
func (g *Grid) At(x, z int) []uint32 {
	if x < 0 || x >= g.Width || z < 0 || z >= g.Height {
		return nil
	}
	cell := &g.Cells[z*g.Width+x]
	if cell.Count == 0 {
		return nil
	}
	return cell.Slots[:cell.Count]
}

// Clear empties every cell without releasing memory
func (g *Grid) Clear() {
	for i := range g.Cells {
		g.Cells[i].Count = 0
	}
}
