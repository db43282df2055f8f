package archipelago

import (
	"crypto/sha256"
	"encoding/binary"
)

// ChunkKey addresses one fixed-size square of world space.
type ChunkKey struct {
	CX int
	CY int
}

func (k ChunkKey) less(o ChunkKey) bool {
	if k.CY != o.CY {
		return k.CY < o.CY
	}
	return k.CX < o.CX
}

// Block is one generated voxel. IslandID and the distance fields feed the
// export priority score.
type Block struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Z        int    `json:"z"`
	Material string `json:"material"`
	IslandID int    `json:"island_id"`
	Surface  bool   `json:"surface,omitempty"`
	Rare     bool   `json:"rare,omitempty"`
	// CenterDist is the distance to the owning island center, normalized
	// by its influence radius.
	CenterDist float64 `json:"-"`
	Biome      int     `json:"biome"`
}

// Chunk owns the working maps for one square of world space. It is part of
// the generator's cache, not of any committed output; eviction may drop it
// at any time and a later touch regenerates it identically.
type Chunk struct {
	Key       ChunkKey
	Size      int
	Heights   []float64 // len Size*Size
	Biomes    []int16   // biome index per cell, -1 for open sea
	Blocks    []Block   // sparse material map in deterministic cell order
	Generated bool

	lastAccess uint64
}

func newChunk(key ChunkKey, size int) *Chunk {
	c := &Chunk{
		Key:     key,
		Size:    size,
		Heights: make([]float64, size*size),
		Biomes:  make([]int16, size*size),
	}
	for i := range c.Biomes {
		c.Biomes[i] = -1
	}
	return c
}

// Digest hashes the block list for cross-run comparison.
func (c *Chunk) Digest() [32]byte {
	h := sha256.New()
	var b [8]byte
	for _, blk := range c.Blocks {
		binary.LittleEndian.PutUint64(b[:], uint64(int64(blk.X)))
		h.Write(b[:])
		binary.LittleEndian.PutUint64(b[:], uint64(int64(blk.Y)))
		h.Write(b[:])
		binary.LittleEndian.PutUint64(b[:], uint64(int64(blk.Z)))
		h.Write(b[:])
		h.Write([]byte(blk.Material))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
