// Package spatial provides the uniform-grid broad phase used to limit
// narrow-phase tests to nearby bodies.
package spatial

import (
	"math"

	"github.com/opd-ai/go-sweep/pkg/physics"
)

// DefaultChunkSize is used when a non-positive chunk size is requested
const DefaultChunkSize = 1.0

// neighborOffsets is the Moore neighborhood including the center chunk,
// in row-major order from the bottom-left.
var neighborOffsets = [9]ChunkID{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {0, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// ChunkID is an integer grid coordinate
type ChunkID struct {
	X int
	Y int
}

// Add offsets the chunk id
func (c ChunkID) Add(other ChunkID) ChunkID {
	return ChunkID{X: c.X + other.X, Y: c.Y + other.Y}
}

// ChunkMap buckets values by the chunk their position falls in. It is not
// safe for concurrent writes; concurrent reads after building are fine.
type ChunkMap[T any] struct {
	chunks    map[ChunkID][]T
	chunkSize float64
	count     int
}

// NewChunkMap creates a chunk map with the given initial capacity and chunk
// edge length
func NewChunkMap[T any](capacity int, chunkSize float64) *ChunkMap[T] {
	if chunkSize <= 0 || math.IsNaN(chunkSize) || math.IsInf(chunkSize, 0) {
		chunkSize = DefaultChunkSize
	}
	return &ChunkMap[T]{
		chunks:    make(map[ChunkID][]T, capacity),
		chunkSize: chunkSize,
	}
}

// ChunkSize returns the chunk edge length
func (m *ChunkMap[T]) ChunkSize() float64 {
	return m.chunkSize
}

// ChunkOf returns the id of the chunk containing position.
// A position on a chunk boundary belongs to the chunk above/right of it.
func (m *ChunkMap[T]) ChunkOf(position physics.Vector2D) ChunkID {
	return ChunkID{
		X: int(math.Floor(position.X / m.chunkSize)),
		Y: int(math.Floor(position.Y / m.chunkSize)),
	}
}

// Insert places value in the chunk containing position
func (m *ChunkMap[T]) Insert(position physics.Vector2D, value T) ChunkID {
	id := m.ChunkOf(position)
	m.chunks[id] = append(m.chunks[id], value)
	m.count++
	return id
}

// Len returns the number of stored values
func (m *ChunkMap[T]) Len() int {
	return m.count
}

// ChunkCount returns the number of non-empty chunks
func (m *ChunkMap[T]) ChunkCount() int {
	return len(m.chunks)
}

// Chunk returns the values stored in a single chunk
func (m *ChunkMap[T]) Chunk(id ChunkID) []T {
	return m.chunks[id]
}

// ForEachInNeighborhood calls fn once per value stored in center and each of
// its eight adjacent chunks
func (m *ChunkMap[T]) ForEachInNeighborhood(center ChunkID, fn func(ChunkID, T)) {
	for _, offset := range neighborOffsets {
		id := center.Add(offset)
		for _, v := range m.Chunk(id) {
			fn(id, v)
		}
	}
}

// Clear removes every value, keeping the map's storage for reuse
func (m *ChunkMap[T]) Clear() {
	clear(m.chunks)
	m.count = 0
}
