// Package worldstore is the reference host collaborator: a chunked
// in-memory block store exposing the single write primitive the generators
// need. The generators never read back from it.
package worldstore

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
)

const chunkSize = 16

type ChunkKey struct {
	CX int
	CY int
}

// Chunk holds the sparse committed blocks of one 16x16 column of world
// space, any vertical level.
type Chunk struct {
	Key    ChunkKey
	Blocks map[[3]int]string

	dirty bool
	hash  [32]byte
}

// Digest hashes the chunk's blocks in deterministic key order.
func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		keys := make([][3]int, 0, len(c.Blocks))
		for k := range c.Blocks {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := keys[i], keys[j]
			if a[2] != b[2] {
				return a[2] < b[2]
			}
			if a[1] != b[1] {
				return a[1] < b[1]
			}
			return a[0] < b[0]
		})
		h := sha256.New()
		var tmp [8]byte
		for _, k := range keys {
			for _, v := range k {
				binary.LittleEndian.PutUint64(tmp[:], uint64(int64(v)))
				h.Write(tmp[:])
			}
			h.Write([]byte(c.Blocks[k]))
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}

// Store is an in-memory world. Accessed only from the goroutine that owns
// the generation run.
type Store struct {
	chunks map[ChunkKey]*Chunk
	placed int
}

func New() *Store {
	return &Store{chunks: map[ChunkKey]*Chunk{}}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

func (s *Store) chunkFor(x, y int) *Chunk {
	key := ChunkKey{CX: floorDiv(x, chunkSize), CY: floorDiv(y, chunkSize)}
	ch, ok := s.chunks[key]
	if !ok {
		ch = &Chunk{Key: key, Blocks: map[[3]int]string{}}
		s.chunks[key] = ch
	}
	return ch
}

// Place commits one block. It returns false, without overwriting, when the
// position is already occupied.
func (s *Store) Place(x, y, z int, material string) bool {
	ch := s.chunkFor(x, y)
	k := [3]int{x, y, z}
	if _, occupied := ch.Blocks[k]; occupied {
		return false
	}
	ch.Blocks[k] = material
	ch.dirty = true
	s.placed++
	return true
}

// Get reports the material at a position, if any.
func (s *Store) Get(x, y, z int) (string, bool) {
	key := ChunkKey{CX: floorDiv(x, chunkSize), CY: floorDiv(y, chunkSize)}
	ch, ok := s.chunks[key]
	if !ok {
		return "", false
	}
	m, ok := ch.Blocks[[3]int{x, y, z}]
	return m, ok
}

// PlacedCount is the number of accepted Place calls.
func (s *Store) PlacedCount() int { return s.placed }

// Digest combines all chunk digests in key order into one world digest.
func (s *Store) Digest() [32]byte {
	keys := make([]ChunkKey, 0, len(s.chunks))
	for k := range s.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CY != keys[j].CY {
			return keys[i].CY < keys[j].CY
		}
		return keys[i].CX < keys[j].CX
	})
	h := sha256.New()
	for _, k := range keys {
		d := s.chunks[k].Digest()
		h.Write(d[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
