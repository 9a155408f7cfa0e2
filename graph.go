// Original work: Copyright (c) 2013 Alexander Willing, All rights reserved.
// Modified work: Copyright (c) 2013 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package graph implements a weighted, directed graph data structure.
// See https://en.wikipedia.org/wiki/Graph_(abstract_data_type) for more information.
package graph

import (
	"errors"
)

// The Graph object.
type Graph struct {
	// A map of all the nodes in this graph, indexed by their key.
	nodes map[string]*Node
}

// The Node object.
type Node struct {
	key   string
	value interface{}
	// Maps the successor node to the weight of the connection to it.
	successors map[*Node]float64
}

// Successors returns the map of successors.
func (node *Node) Successors() map[*Node]float64 {
	if node == nil {
		return nil
	}

	successors := node.successors
	return successors
}

// Key returns the node's key.
func (node *Node) Key() string {
	if node == nil {
		return ""
	}

	key := node.key
	return key
}

// Value returns the node's value.
func (node *Node) Value() interface{} {
	if node == nil {
		return nil
	}

	value := node.value
	return value
}

// New creates a graph.
func New() *Graph {
	return &Graph{
		nodes: map[string]*Node{},
	}
}

// Set returns a new or updated node.
// If key doesn't exist, Set creates a new node with value.
// If node with key exists, Set updates the value, all connections
// are unchanged.
func (g *Graph) Set(key string, value interface{}) *Node {

	v := g.get(key)

	// if no such node exists
	if v == nil {
		// create a new one
		v = &Node{
			key:        key,
			value:      value,
			successors: map[*Node]float64{},
		}

		// and add it to the graph
		g.nodes[key] = v
		return v
	}

	v.value = value
	return v
}

// GetAll returns a slice containing all nodes.
func (g *Graph) GetAll() (all []*Node) {
	for _, v := range g.nodes {
		all = append(all, v)
	}
	return
}

// Predecessors returns a slice with the nodes that connect
// to this node.
func (g *Graph) Predecessors(node *Node) []*Node {

	pred := make(map[*Node]bool)
	var res []*Node

	// Mark nodes that have an arc to node.
	for _, n := range g.nodes {
		yes, _ := n.IsConnected(node)
		if yes {
			pred[n] = true
		}
	}
	for v, _ := range pred {
		res = append(res, v)
	}
	return res
}

// StartNodes returns a slice of start nodes.
// A start node is a node with no predescessors.
func (g *Graph) StartNodes() []*Node {

	var res []*Node

	// Find nodes that have no predecessors.
	for _, node := range g.nodes {
		if len(g.Predecessors(node)) == 0 {
			res = append(res, node)
		}
	}
	return res
}

// EndNodes returns a slice of end nodes.
// An end node is a node with no successors.
func (g *Graph) EndNodes() []*Node {

	var res []*Node

	// Find nodes that have no successors.
	for _, node := range g.nodes {
		if len(node.successors) == 0 {
			res = append(res, node)
		}
	}
	return res
}

// Get node by key, returns an error if there is no node for key.
func (g *Graph) Get(key string) (v *Node, err error) {
	v = g.get(key)

	if v == nil {
		err = errors.New("graph: invalid key")
	}

	return
}

// Internal function.
func (g *Graph) get(key string) *Node {
	return g.nodes[key]
}

// Connect creates an arc between the nodes specified by the keys "from" and "to.
// Returns false if one or both keys are invalid.
// If a connection exists, it is overwritten with the new arc weight.
func (g *Graph) Connect(from string, to string, weight float64) bool {

	// get nodes and check for validity of keys
	v := g.get(from)
	otherV := g.get(to)

	if v == nil || otherV == nil {
		return false
	}

	v.successors[otherV] = weight

	// success
	return true
}

// IsConnected returns true and the arc weight if arc exists.
// Returns false if there is no arc. Used internally by Predecessors to
// find nodes pointing at a given node.
func (node *Node) IsConnected(toNode *Node) (exists bool, weight float64) {

	// iterate over it's map of arcs; when the right node is found, return
	for succV, weight := range node.successors {
		if succV == toNode {
			return true, weight
		}
	}
	return
}
