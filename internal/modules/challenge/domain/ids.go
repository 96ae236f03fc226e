package domain

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

func initSnowflake() {
	var err error
	// TODO: take the node ID from config once the service runs more than one
	// instance; every instance must have a unique node ID.
	node, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// NextID generates a unique int64 row ID for subject seeds and outcomes
func NextID() int64 {
	once.Do(initSnowflake)
	return node.Generate().Int64()
}
