package tilemax

import (
	"testing"

	"github.com/WilliamChao/KinoMotion/internal/velocity"
)

func TestTileSize(t *testing.T) {
	tests := []struct {
		radius float64
		want   int
	}{
		{0, 8},
		{0.01, 8},
		{1, 8},
		{8, 8},
		{8.1, 16},
		{16, 16},
		{50, 56},
		{56, 56},
		{100, 104},
	}
	for _, tt := range tests {
		if got := TileSize(tt.radius); got != tt.want {
			t.Errorf("TileSize(%v) = %d, want %d", tt.radius, got, tt.want)
		}
	}
}

func TestCellCounts(t *testing.T) {
	tests := []struct {
		w, h, block int
		cx, cy      int
	}{
		{64, 32, 4, 16, 8},
		{65, 33, 4, 17, 9},
		{100, 100, 8, 13, 13},
		{1920, 1080, 56, 35, 20},
	}
	for _, tt := range tests {
		cx, cy := CellCounts(tt.w, tt.h, tt.block)
		if cx != tt.cx || cy != tt.cy {
			t.Errorf("CellCounts(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.w, tt.h, tt.block, cx, cy, tt.cx, tt.cy)
		}
	}
}

// packedField builds a velocity.Field where pixel (x, y) has velocity
// (vx(x,y), vy(x,y)) already within the radius.
func packedField(w, h int, maxRadius float64, vel func(x, y int) (float64, float64)) *velocity.Field {
	f := &velocity.Field{W: w, H: h, Data: make([]uint16, velocity.Len(w, h))}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			vx, vy := vel(x, y)
			f.Set(x, y, vx, vy, 0.5, maxRadius)
		}
	}
	return f
}

func newField(w, h int) *Field {
	return &Field{W: w, H: h, VX: make([]float32, Len(w, h)), VY: make([]float32, Len(w, h))}
}

func TestReduceVelocityRowsPicksMaxMagnitude(t *testing.T) {
	const maxRadius = 100.0
	// 8x8 source; one 4x4 block contains a single dominant vector.
	src := packedField(8, 8, maxRadius, func(x, y int) (float64, float64) {
		if x == 2 && y == 3 {
			return 9, 0
		}
		if x == 5 && y == 5 {
			return 0, -7
		}
		return 1, 1
	})

	dst := newField(2, 2)
	ReduceVelocityRows(dst, src, 4, 0, 2, maxRadius)

	vx, vy := dst.At(0, 0)
	if vx < 8.9 || vx > 9.1 || vy < -0.1 || vy > 0.1 {
		t.Errorf("block (0,0) max = (%v, %v), want ~(9, 0)", vx, vy)
	}
	vx, vy = dst.At(1, 1)
	if vy > -6.9 || vy < -7.1 {
		t.Errorf("block (1,1) max = (%v, %v), want ~(0, -7)", vx, vy)
	}
	// Blocks without a dominant vector keep the (1, 1) fill.
	vx, vy = dst.At(1, 0)
	if vx < 0.9 || vx > 1.1 || vy < 0.9 || vy > 1.1 {
		t.Errorf("block (1,0) max = (%v, %v), want ~(1, 1)", vx, vy)
	}
}

func TestReduceRowsRaggedEdge(t *testing.T) {
	// 5x3 source reduced by factor 2 gives 3x2 cells; the right and
	// bottom cells cover partial blocks.
	src := newField(5, 3)
	for i := range src.VX {
		src.VX[i] = float32(i + 1) // unique magnitudes, no ties
	}
	dst := newField(3, 2)
	ReduceRows(dst, src, 2, 0, 2)

	// Bottom-right cell covers only source (4, 2), value 15.
	if vx, _ := dst.At(2, 1); vx != 15 {
		t.Errorf("ragged corner cell = %v, want 15", vx)
	}
	// Interior cell (0, 0) covers values 1, 2, 6, 7.
	if vx, _ := dst.At(0, 0); vx != 7 {
		t.Errorf("cell (0,0) = %v, want 7", vx)
	}
}

func TestReduceRowsTwiceMatchesSingleLargerFactor(t *testing.T) {
	// With unique magnitudes, reducing by 2 twice equals reducing by 4
	// once over block-aligned dimensions.
	src := newField(16, 16)
	for i := range src.VX {
		src.VX[i] = float32(i)
	}

	once := newField(4, 4)
	ReduceRows(once, src, 4, 0, 4)

	mid := newField(8, 8)
	ReduceRows(mid, src, 2, 0, 8)
	twice := newField(4, 4)
	ReduceRows(twice, mid, 2, 0, 4)

	for i := range once.VX {
		if once.VX[i] != twice.VX[i] {
			t.Fatalf("cell %d: single pass %v, two passes %v", i, once.VX[i], twice.VX[i])
		}
	}
}

func TestReduceCenteredRowsCoversDominantCell(t *testing.T) {
	// tileSize 16 over a 32x32 frame: the 8x-reduced field is 4x4 and
	// the tile field is 2x2, each tile sampling a 2x2 window.
	src := newField(4, 4)
	src.VX[1*4+1] = 12 // cell (1, 1), inside tile (0, 0)'s window
	src.VX[3*4+3] = 20 // cell (3, 3), inside tile (1, 1)'s window

	dst := newField(2, 2)
	ReduceCenteredRows(dst, src, 16, 0, 2)

	if vx, _ := dst.At(0, 0); vx != 12 {
		t.Errorf("tile (0,0) = %v, want 12", vx)
	}
	if vx, _ := dst.At(1, 1); vx != 20 {
		t.Errorf("tile (1,1) = %v, want 20", vx)
	}
}

func TestReduceCenteredRowsRatioOne(t *testing.T) {
	// tileSize 8 degenerates to a direct copy of the 8x-reduced field.
	src := newField(3, 3)
	for i := range src.VX {
		src.VX[i] = float32(i + 1)
		src.VY[i] = -float32(i + 1)
	}
	dst := newField(3, 3)
	ReduceCenteredRows(dst, src, 8, 0, 3)

	for i := range src.VX {
		if dst.VX[i] != src.VX[i] || dst.VY[i] != src.VY[i] {
			t.Fatalf("cell %d: got (%v, %v), want (%v, %v)",
				i, dst.VX[i], dst.VY[i], src.VX[i], src.VY[i])
		}
	}
}

func TestNeighborMaxRows(t *testing.T) {
	src := newField(4, 4)
	src.VX[1*4+1] = 5 // (1, 1)
	src.VY[3*4+3] = 8 // (3, 3)

	dst := newField(4, 4)
	NeighborMaxRows(dst, src, 0, 4)

	// Every tile adjacent to (1, 1) sees magnitude 5; (0, 0) included.
	if vx, _ := dst.At(0, 0); vx != 5 {
		t.Errorf("tile (0,0) = %v, want 5 from neighbor (1,1)", vx)
	}
	// (3, 0) is adjacent to neither source; it stays zero.
	if vx, vy := dst.At(3, 0); vx != 0 || vy != 0 {
		t.Errorf("tile (3,0) = (%v, %v), want (0, 0)", vx, vy)
	}
	// Corner (3, 3) dominates its own neighborhood.
	if _, vy := dst.At(3, 3); vy != 8 {
		t.Errorf("tile (3,3) vy = %v, want 8", vy)
	}
	// (2, 2) neighbors both; magnitude 8 wins.
	if _, vy := dst.At(2, 2); vy != 8 {
		t.Errorf("tile (2,2) vy = %v, want 8", vy)
	}
}

func TestAtClampsCoordinates(t *testing.T) {
	f := newField(2, 2)
	f.VX[0] = 1
	f.VX[3] = 4

	if vx, _ := f.At(-3, -3); vx != 1 {
		t.Errorf("At(-3,-3) = %v, want edge value 1", vx)
	}
	if vx, _ := f.At(5, 5); vx != 4 {
		t.Errorf("At(5,5) = %v, want edge value 4", vx)
	}
}
