package vertex

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// SnapSize is the spatial grid cell size. Positions that differ only by
	// sub-cell noise quantize to the same cell and receive identical jitter.
	SnapSize float32 = 0.5

	// StepRate is the temporal quantization rate in Hz. All vertices within
	// one 1/8-second window see the same jitter.
	StepRate float32 = 8.0
)

// Seed-combiner multipliers. Distinct odd constants decorrelate the three
// spatial axes and time so axis-aligned coincidences don't pattern visibly.
const (
	seedMulY    uint32 = 1471
	seedMulZ    uint32 = 6367
	seedMulTime uint32 = 89513
)

// PCG permutation constants (32-bit variant).
const (
	pcgMul1 uint32 = 747796405
	pcgInc  uint32 = 2891336453
	pcgMul2 uint32 = 277803737
)

// =============================================================================
// Quantization
// =============================================================================

// snapCell quantizes a world position to its grid cell. The floored cell
// index is reinterpreted as a uint32 bit pattern; only bit mixing matters
// downstream, not magnitude.
func snapCell(p mgl32.Vec3) (sx, sy, sz uint32) {
	sx = uint32(int32(floor32(p.X() / SnapSize)))
	sy = uint32(int32(floor32(p.Y() / SnapSize)))
	sz = uint32(int32(floor32(p.Z() / SnapSize)))
	return
}

// timeStep quantizes the clock to a discrete step index at StepRate.
func timeStep(t float32) uint32 {
	return uint32(int32(floor32(t * StepRate)))
}

func floor32(x float32) float32 {
	return float32(math.Floor(float64(x)))
}

// =============================================================================
// Seed + Hash
// =============================================================================

// Seed folds a position's grid cell and the clock's step index into one
// 32-bit seed. All arithmetic wraps modulo 2^32.
func Seed(position mgl32.Vec3, time float32) uint32 {
	sx, sy, sz := snapCell(position)
	return sx ^ sy*seedMulY ^ sz*seedMulZ ^ timeStep(time)*seedMulTime
}

// Hash is a PCG-style permutation over 32-bit integers. It is bit-exact and
// deterministic: identical input always produces identical output,
// independent of call order. There is no hidden state.
func Hash(x uint32) uint32 {
	state := x*pcgMul1 + pcgInc
	word := ((state >> ((state >> 28) + 4)) ^ state) * pcgMul2
	return (word >> 22) ^ word
}

// HashToFloat maps the full uint32 range onto [-1, 1] approximately
// uniformly.
func HashToFloat(h uint32) float32 {
	return float32(h)/4294967295.0*2.0 - 1.0
}

// =============================================================================
// Offsets
// =============================================================================

// Offset derives the three axis offsets for a seed. Each axis perturbs the
// seed differently so jitter is uncorrelated across axes. Every component is
// bounded by |thickness|, and a zero thickness yields an exact zero vector.
func Offset(seed uint32, thickness float32) mgl32.Vec3 {
	return mgl32.Vec3{
		HashToFloat(Hash(seed)) * thickness,
		HashToFloat(Hash(seed^1)) * thickness,
		HashToFloat(Hash(seed^2)) * thickness,
	}
}
