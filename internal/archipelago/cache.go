package archipelago

// chunkCache is the only shared mutable resource of a generation run. It is
// owned by exactly one orchestrator (single-writer discipline); it carries
// no locking on purpose.
type chunkCache struct {
	ceiling int
	tick    uint64
	chunks  map[ChunkKey]*Chunk

	evictions int
}

func newChunkCache(ceiling int) *chunkCache {
	return &chunkCache{
		ceiling: ceiling,
		chunks:  make(map[ChunkKey]*Chunk),
	}
}

// get returns the cached chunk and refreshes its access stamp.
func (cc *chunkCache) get(key ChunkKey) (*Chunk, bool) {
	ch, ok := cc.chunks[key]
	if ok {
		cc.tick++
		ch.lastAccess = cc.tick
	}
	return ch, ok
}

// put inserts a chunk and evicts the least recently touched one while the
// cache exceeds its ceiling. Eviction only drops working maps; committed
// or exported placements live elsewhere.
func (cc *chunkCache) put(ch *Chunk) {
	cc.tick++
	ch.lastAccess = cc.tick
	cc.chunks[ch.Key] = ch
	for len(cc.chunks) > cc.ceiling {
		cc.evictOldest()
	}
}

func (cc *chunkCache) evictOldest() {
	var victim ChunkKey
	var oldest uint64
	found := false
	for key, ch := range cc.chunks {
		if !found || ch.lastAccess < oldest || (ch.lastAccess == oldest && key.less(victim)) {
			victim, oldest, found = key, ch.lastAccess, true
		}
	}
	if found {
		delete(cc.chunks, victim)
		cc.evictions++
	}
}

func (cc *chunkCache) len() int { return len(cc.chunks) }
