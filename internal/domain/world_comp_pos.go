package domain

import (
	"fmt"
	"math"
)

// DistanceTo возвращает евклидово расстояние до другой точки
func (v Vec3) DistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// HorizontalDistanceTo - расстояние без учета высоты
func (v Vec3) HorizontalDistanceTo(other Vec3) float64 {
	dx := v.X - other.X
	dz := v.Z - other.Z
	return math.Sqrt(dx*dx + dz*dz)
}

func (v Vec3) Add(dx, dy, dz float64) Vec3 {
	return Vec3{X: v.X + dx, Y: v.Y + dy, Z: v.Z + dz}
}

// Round1 округляет каждую координату до 0.1 (так позиция уходит клиенту)
func (v Vec3) Round1() Vec3 {
	return Vec3{X: Round1(v.X), Y: Round1(v.Y), Z: Round1(v.Z)}
}

// Block возвращает блок, в котором стоят ноги
func (v Vec3) Block() BlockPos {
	return BlockPos{
		X: int(math.Floor(v.X)),
		Y: int(math.Floor(v.Y)),
		Z: int(math.Floor(v.Z)),
	}
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", v.X, v.Y, v.Z)
}

// Center - точка опоры в центре блока (куда встают ноги)
func (b BlockPos) Center() Vec3 {
	return Vec3{X: float64(b.X) + 0.5, Y: float64(b.Y), Z: float64(b.Z) + 0.5}
}

// Middle - геометрический центр блока (туда смотрят)
func (b BlockPos) Middle() Vec3 {
	return Vec3{X: float64(b.X) + 0.5, Y: float64(b.Y) + 0.5, Z: float64(b.Z) + 0.5}
}

func (b BlockPos) Offset(dx, dy, dz int) BlockPos {
	return BlockPos{X: b.X + dx, Y: b.Y + dy, Z: b.Z + dz}
}

func (b BlockPos) Below() BlockPos { return b.Offset(0, -1, 0) }
func (b BlockPos) Above() BlockPos { return b.Offset(0, 1, 0) }

// ManhattanTo - дешевая оценка дистанции между блоками
func (b BlockPos) ManhattanTo(other BlockPos) int {
	return absInt(b.X-other.X) + absInt(b.Y-other.Y) + absInt(b.Z-other.Z)
}

// Round1 округляет число до одного знака после запятой, половину - вверх
// (-0.05 -> 0, а не -0.1)
func Round1(f float64) float64 {
	return math.Floor(f*10.0+0.5) / 10.0
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
