package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Epoch is 2026-01-01T00:00:00Z in milliseconds.
const Epoch int64 = 1767225600000

const maxNode = 1<<10 - 1

// Snowflake hands out 63-bit ids that are unique per node and roughly
// ordered by time.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator for nodeID. A negative nodeID picks a
// random node, which is fine for a single process.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 {
		var err error
		if nodeID, err = randomNode(); err != nil {
			return nil, fmt.Errorf("random snowflake node: %w", err)
		}
	}
	if nodeID > maxNode {
		return nil, fmt.Errorf("snowflake node %d out of range 0..%d", nodeID, maxNode)
	}

	snowflake.Epoch = Epoch

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func randomNode() (int64, error) {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint16(buf[:]) & maxNode), nil
}
