package ids

import (
	"strconv"
	"sync"
	"time"
)

type generator struct {
	mu       sync.Mutex
	epochMS  int64
	nodeID   int64 // 0~1023
	seq      int64 // 0~4095
	lastTSMS int64
}

var (
	defaultGen *generator
	once       sync.Once
	nodeID     int64 = 1
)

func initDefault() {
	once.Do(func() {
		defaultGen = &generator{
			epochMS: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
			nodeID:  nodeID,
		}
	})
}

// SetNodeID must be called before the first Generate; later calls are ignored.
func SetNodeID(id int64) {
	if id >= 0 && id < 1024 {
		nodeID = id
	}
}

// Generate returns a new snowflake-style id.
func Generate() int64 {
	initDefault()
	return defaultGen.next()
}

// GenerateString returns a new id in decimal string form; used for
// connection ids, where the id only ever travels as a string.
func GenerateString() string {
	return strconv.FormatInt(Generate(), 10)
}

func (g *generator) next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()
	if now < g.lastTSMS {
		// clock went backwards; wait it out
		now = g.lastTSMS
	}
	if now == g.lastTSMS {
		g.seq = (g.seq + 1) & 0xFFF
		if g.seq == 0 {
			for now <= g.lastTSMS {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		g.seq = 0
	}
	g.lastTSMS = now

	return ((now - g.epochMS) << 22) | (g.nodeID << 12) | g.seq
}
