package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// epochMillis is 2026-01-01T00:00:00Z; ids stay small for years after launch.
const epochMillis = 1767225600000

// maxNodeID is the largest node ID supported by the default 10 node bits.
const maxNodeID = 1<<10 - 1

// ErrNodeID is returned when a configured node ID does not fit into 10 bits.
var ErrNodeID = errors.New("snowflake node id must be within 0..1023")

// Snowflake generates numeric, time-ordered IDs.
type Snowflake struct {
	node *snowflake.Node
}

func generateRandomNodeID() (int64, error) {
	var nodeID int64
	if err := binary.Read(rand.Reader, binary.BigEndian, &nodeID); err != nil {
		return 0, err
	}

	return nodeID & maxNodeID, nil
}

// NewSnowflake constructs a Snowflake generator.
//
// A negative nodeID picks a random node, which is fine for a single replica;
// deployments with several replicas should pin distinct node IDs.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID < 0 {
		var err error
		if nodeID, err = generateRandomNodeID(); err != nil {
			return nil, err
		}
	}
	if nodeID > maxNodeID {
		return nil, ErrNodeID
	}

	snowflake.Epoch = epochMillis

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
