package ids

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// Node hands out time-ordered 63-bit IDs. Every process needs its own node number.
type Node struct {
	node *snowflake.Node
}

func NewNode(id int64) (*Node, error) {
	n, err := snowflake.NewNode(id)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", id, err)
	}
	return &Node{node: n}, nil
}

func MustNode(id int64) *Node {
	n, err := NewNode(id)
	if err != nil {
		panic(err)
	}
	return n
}

func (n *Node) Next() uint64 {
	return uint64(n.node.Generate().Int64())
}

func NewRequestID() string {
	return ksuid.New().String()
}
