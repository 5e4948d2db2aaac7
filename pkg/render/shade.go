package render

import (
	"runtime"
	"sync"

	"github.com/matzehuels/sketchmesh/pkg/vertex"
)

// ShadeVertices runs the vertex pipeline over every input vertex, fanning
// chunks out across workers. Each vertex is an independent pure function of
// its own attributes and the shared read-only frame context, so scheduling
// never changes the result: output index i always holds the shaded input i.
//
// workers <= 0 selects GOMAXPROCS.
func ShadeVertices(in []vertex.VertexIn, fc vertex.FrameContext, workers int) []vertex.VertexOut {
	out := make([]vertex.VertexOut, len(in))
	if len(in) == 0 {
		return out
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(in) {
		workers = len(in)
	}
	if workers == 1 {
		for i, v := range in {
			out[i] = vertex.Shade(v, fc)
		}
		return out
	}

	chunk := (len(in) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(in))
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				out[i] = vertex.Shade(in[i], fc)
			}
		}(lo, hi)
	}
	wg.Wait()

	return out
}
