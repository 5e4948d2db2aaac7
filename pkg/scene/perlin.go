package scene

import (
	"math"
	"math/rand/v2"
)

// perlin is a seeded gradient-noise generator with the improved quintic
// fade curve. The permutation table is shuffled once from the seed, so the
// same seed always yields the same terrain.
type perlin struct {
	perm [512]int
}

func newPerlin(seed uint64) *perlin {
	p := &perlin{}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	for i := 0; i < 256; i++ {
		p.perm[i] = i
	}
	for i := 255; i > 0; i-- {
		j := rng.IntN(i + 1)
		p.perm[i], p.perm[j] = p.perm[j], p.perm[i]
	}
	for i := 0; i < 256; i++ {
		p.perm[256+i] = p.perm[i]
	}
	return p
}

// noise2D returns gradient noise in roughly [-1, 1] at (x, y).
func (p *perlin) noise2D(x, y float64) float64 {
	xi := int(math.Floor(x)) & 255
	yi := int(math.Floor(y)) & 255

	x -= math.Floor(x)
	y -= math.Floor(y)

	u := fade(x)
	v := fade(y)

	a := p.perm[xi] + yi
	b := p.perm[xi+1] + yi

	return lerp64(v,
		lerp64(u, grad2(p.perm[a], x, y), grad2(p.perm[b], x-1, y)),
		lerp64(u, grad2(p.perm[a+1], x, y-1), grad2(p.perm[b+1], x-1, y-1)))
}

// octaveNoise2D sums octaves of noise2D with the given lacunarity and
// persistence, normalized back to roughly [-1, 1].
func (p *perlin) octaveNoise2D(x, y float64, octaves int, lacunarity, persistence float64) float64 {
	var total, amplitude, maxValue float64
	amplitude = 1
	frequency := 1.0

	for range octaves {
		total += p.noise2D(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if maxValue == 0 {
		return 0
	}
	return total / maxValue
}

// fade is the quintic interpolant 6t^5 - 15t^4 + 10t^3; it removes
// second-derivative discontinuities at cell borders.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp64(t, a, b float64) float64 {
	return a + t*(b-a)
}

// grad2 selects one of eight gradient directions and dots it with (x, y).
func grad2(hash int, x, y float64) float64 {
	switch hash & 7 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}
