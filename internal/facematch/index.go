package facematch

import (
	"context"
	"fmt"
	"sync"

	"github.com/coder/hnsw"
	"github.com/kozaktomas/face-attend/internal/database"
)

// hnswMaxNeighbors is the M parameter of the HNSW graph.
const hnswMaxNeighbors = 16

// Match is the result of scoring a probe descriptor against the index.
type Match struct {
	User     database.User
	Distance float64
}

// Index holds registered users' face descriptors in an in-memory HNSW graph
// for nearest-match lookup. The graph is rebuilt from the user store at
// startup and updated as users register.
type Index struct {
	mu       sync.RWMutex
	graph    *hnsw.Graph[string]
	idToUser map[string]*database.User
	dims     int // descriptor length the graph was built with; 0 until first Add
}

// NewIndex creates an empty descriptor index.
func NewIndex() *Index {
	return &Index{
		idToUser: make(map[string]*database.User),
	}
}

func newGraph() *hnsw.Graph[string] {
	g := hnsw.NewGraph[string]()
	g.M = hnswMaxNeighbors
	g.Ml = 1.0 / float64(hnswMaxNeighbors)
	g.Distance = hnsw.EuclideanDistance
	return g
}

// Build loads all users from the store and indexes their descriptors,
// replacing any previous contents.
func (idx *Index) Build(ctx context.Context, users database.UserStore) error {
	all, err := users.List(ctx)
	if err != nil {
		return fmt.Errorf("loading users for face index: %w", err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.graph = nil
	idx.dims = 0
	idx.idToUser = make(map[string]*database.User, len(all))
	if len(all) == 0 {
		return nil
	}

	// The graph panics on mixed vector lengths; the first descriptor fixes
	// the dimensionality and anything else is skipped.
	g := newGraph()
	for i := range all {
		user := &all[i]
		if len(user.FaceDescriptor) == 0 {
			continue
		}
		if idx.dims == 0 {
			idx.dims = len(user.FaceDescriptor)
		}
		if len(user.FaceDescriptor) != idx.dims {
			continue
		}
		g.Add(hnsw.MakeNode(user.ID, user.FaceDescriptor))
		idx.idToUser[user.ID] = user
	}
	idx.graph = g
	return nil
}

// Add indexes a single user's descriptor. A descriptor whose length differs
// from the ones already indexed is ignored; it could never match a probe and
// the graph rejects mixed dimensions.
func (idx *Index) Add(user *database.User) {
	if len(user.FaceDescriptor) == 0 {
		return
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dims != 0 && len(user.FaceDescriptor) != idx.dims {
		return
	}
	if idx.graph == nil {
		idx.graph = newGraph()
	}
	if idx.dims == 0 {
		idx.dims = len(user.FaceDescriptor)
	}
	idx.graph.Add(hnsw.MakeNode(user.ID, user.FaceDescriptor))
	idx.idToUser[user.ID] = user
}

// Count returns the number of indexed users.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.idToUser)
}

// Match returns the registered user whose descriptor is closest to the probe,
// provided the euclidean distance is within threshold. Returns nil when no
// users are indexed or the best candidate is too far away — including when
// the probe's dimensionality does not match the stored descriptors.
func (idx *Index) Match(probe []float32, threshold float64) *Match {
	if len(probe) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.graph == nil || len(probe) != idx.dims {
		return nil
	}

	neighbors := idx.graph.Search(probe, 1)
	if len(neighbors) == 0 {
		return nil
	}

	best := neighbors[0]
	user, ok := idx.idToUser[best.Key]
	if !ok {
		return nil
	}

	// Recompute the exact distance from the node's own vector; the graph
	// search distance is approximate.
	dist := EuclideanDistance(probe, best.Value)
	if dist > threshold {
		return nil
	}
	return &Match{User: *user, Distance: dist}
}
