package domain

// Block - тип блока
type Block uint8

const (
	BlockAir Block = iota
	BlockBedrock
	BlockStone
	BlockDirt
	BlockGrass
	BlockWater
	BlockGlass
)

var blockTypeToString = map[Block]string{
	BlockAir:     "air",
	BlockBedrock: "bedrock",
	BlockStone:   "stone",
	BlockDirt:    "dirt",
	BlockGrass:   "grass",
	BlockWater:   "water",
	BlockGlass:   "glass",
}

var blockStringToType = map[string]Block{
	"air":     BlockAir,
	"bedrock": BlockBedrock,
	"stone":   BlockStone,
	"dirt":    BlockDirt,
	"grass":   BlockGrass,
	"water":   BlockWater,
	"glass":   BlockGlass,
}

func ParseBlock(s string) (Block, bool) {
	b, ok := blockStringToType[s]
	return b, ok
}

func (b Block) String() string {
	if val, ok := blockTypeToString[b]; ok {
		return val
	}
	return "unknown"
}

// IsSolid - можно ли на этом стоять
func (b Block) IsSolid() bool {
	return b != BlockAir && b != BlockWater
}

func (b Block) IsLiquid() bool {
	return b == BlockWater
}

// Terrain - плоский мир с точечными правками поверх.
// y=0 бедрок, до GroundLevel камень, на GroundLevel трава, выше воздух.
type Terrain struct {
	Ground    int
	overrides map[BlockPos]Block
}

func NewFlatTerrain(ground int) *Terrain {
	return &Terrain{
		Ground:    ground,
		overrides: make(map[BlockPos]Block),
	}
}

// BlockAt возвращает блок в точке
func (t *Terrain) BlockAt(p BlockPos) Block {
	if b, ok := t.overrides[p]; ok {
		return b
	}
	switch {
	case p.Y <= MinBuildY:
		return BlockBedrock
	case p.Y < t.Ground:
		return BlockStone
	case p.Y == t.Ground:
		return BlockGrass
	default:
		return BlockAir
	}
}

// SetBlock ставит блок поверх генерации
func (t *Terrain) SetBlock(p BlockPos, b Block) {
	t.overrides[p] = b
}

// Fill заполняет параллелепипед (границы включительно)
func (t *Terrain) Fill(from, to BlockPos, b Block) {
	minX, maxX := minMax(from.X, to.X)
	minY, maxY := minMax(from.Y, to.Y)
	minZ, maxZ := minMax(from.Z, to.Z)
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				t.overrides[BlockPos{X: x, Y: y, Z: z}] = b
			}
		}
	}
}

// IsStandable - ноги в p, под ногами твердое, голова свободна
func (t *Terrain) IsStandable(p BlockPos) bool {
	if p.Y <= MinBuildY || p.Y >= MaxBuildY {
		return false
	}
	return t.BlockAt(p.Below()).IsSolid() &&
		!t.BlockAt(p).IsSolid() &&
		!t.BlockAt(p.Above()).IsSolid()
}

// SurfaceAt - первая позиция для ног над самым верхним твердым блоком колонны
func (t *Terrain) SurfaceAt(x, z int) BlockPos {
	for y := MaxBuildY - 1; y > MinBuildY; y-- {
		p := BlockPos{X: x, Y: y, Z: z}
		if t.BlockAt(p.Below()).IsSolid() && !t.BlockAt(p).IsSolid() {
			return p
		}
	}
	return BlockPos{X: x, Y: t.Ground + 1, Z: z}
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}
