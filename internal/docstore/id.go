package docstore

import (
	"hash/fnv"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator hands out time-ordered child keys. Keys from one node sort in
// creation order, which keeps Snapshot.Children in insertion order.
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator uses nodeID when it is in 0..1023, otherwise derives one from
// the hostname.
func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	if nodeID < 0 || nodeID > 1023 {
		nodeID = hostNodeID()
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &IDGenerator{node: node}, nil
}

func (g *IDGenerator) Next() string {
	return g.node.Generate().String()
}

func hostNodeID() int64 {
	host, err := os.Hostname()
	if err != nil {
		// still distinct between processes on one machine
		host = strconv.Itoa(os.Getpid())
	}
	h := fnv.New32a()
	// hash.Hash writes never fail
	_, _ = h.Write([]byte(host))
	return int64(h.Sum32()) & 0x3FF
}
