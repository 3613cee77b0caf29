package world

import "fmt"

// Tile belongs to exactly one Region (spec §3). The static tile_map.csv /
// region_map.csv grids (spec §6) are out of scope; Map models only the
// shape the core engine needs: dimensions plus a per-cell region id.
type Tile struct {
	RegionID RegionID
}

// Map is the rectangular grid agents move on.
type Map struct {
	Width, Height int
	cells         [][]Tile
}

// NewMap allocates a width x height grid with every cell assigned to
// defaultRegion. Callers overwrite cells via SetTile for non-uniform maps.
func NewMap(width, height int, defaultRegion RegionID) *Map {
	cells := make([][]Tile, height)
	for y := range cells {
		row := make([]Tile, width)
		for x := range row {
			row[x] = Tile{RegionID: defaultRegion}
		}
		cells[y] = row
	}
	return &Map{Width: width, Height: height, cells: cells}
}

// Tile returns the tile at p, or an error if out of bounds.
func (m *Map) Tile(p Position) (Tile, error) {
	if !p.InBounds(m.Width, m.Height) {
		return Tile{}, fmt.Errorf("position (%d,%d) out of bounds %dx%d", p.X, p.Y, m.Width, m.Height)
	}
	return m.cells[p.Y][p.X], nil
}

// SetTile assigns the region id for the cell at p.
func (m *Map) SetTile(p Position, regionID RegionID) error {
	if !p.InBounds(m.Width, m.Height) {
		return fmt.Errorf("position (%d,%d) out of bounds %dx%d", p.X, p.Y, m.Width, m.Height)
	}
	m.cells[p.Y][p.X].RegionID = regionID
	return nil
}
