package kin2d

import (
	"errors"
	"fmt"
	"slices"

	"github.com/akmonengine/kin2d/actor"
)

var (
	// ErrElementNotFound is returned when removing an element the tree does not hold,
	// or that is missing from the leaves it was filed under
	ErrElementNotFound = errors.New("quadtree: element not found")
	// ErrElementExists is returned when inserting an element twice
	ErrElementExists = errors.New("quadtree: element already inserted")
)

// QuadTreeConfig bounds the shape of a QuadTree
type QuadTreeConfig struct {
	// MaxDepth is the deepest level a leaf can be split to; the root is at depth 0
	MaxDepth int
	// MaxElements is the number of elements a leaf holds before it splits
	MaxElements int
}

// DefaultQuadTreeConfig returns a tree of depth 6 with 4 elements per leaf
func DefaultQuadTreeConfig() QuadTreeConfig {
	return QuadTreeConfig{
		MaxDepth:    6,
		MaxElements: 4,
	}
}

// quadNode is a leaf when children is nil, a branch otherwise
type quadNode[T comparable] struct {
	children *[4]quadNode[T]
	elements []T
}

func (n *quadNode[T]) isLeaf() bool {
	return n.children == nil
}

type location struct {
	aabb    actor.AABB
	outside bool
}

// QuadTree is a region quadtree over axis-aligned bounding boxes.
//
// An element is filed in every leaf its AABB overlaps, so a query may visit it
// more than once: callers deduplicate. Leaves deeper than MaxDepth are never
// created, those leaves grow beyond MaxElements instead.
//
// Elements whose AABB is not fully inside the tree bounds are kept in a flat list
// scanned by every query.
type QuadTree[T comparable] struct {
	config QuadTreeConfig
	bounds actor.AABB

	root    quadNode[T]
	outside []T
	// AABB each element was filed with, used to find it again on removal
	located map[T]location
}

// NewQuadTree creates an empty tree covering bounds
func NewQuadTree[T comparable](bounds actor.AABB, config QuadTreeConfig) *QuadTree[T] {
	config.MaxDepth = max(0, config.MaxDepth)
	config.MaxElements = max(1, config.MaxElements)

	return &QuadTree[T]{
		config:  config,
		bounds:  bounds,
		located: make(map[T]location),
	}
}

// Bounds returns the region covered by the root
func (qt *QuadTree[T]) Bounds() actor.AABB {
	return qt.bounds
}

// Config returns the depth and leaf limits of the tree
func (qt *QuadTree[T]) Config() QuadTreeConfig {
	return qt.config
}

// Len returns the number of distinct elements
func (qt *QuadTree[T]) Len() int {
	return len(qt.located)
}

// Contains reports whether the element is in the tree
func (qt *QuadTree[T]) Contains(element T) bool {
	_, ok := qt.located[element]
	return ok
}

// Located returns the AABB the element was inserted with
func (qt *QuadTree[T]) Located(element T) (actor.AABB, bool) {
	loc, ok := qt.located[element]
	return loc.aabb, ok
}

// Insert files the element in every leaf its AABB overlaps
func (qt *QuadTree[T]) Insert(element T, aabb actor.AABB) error {
	if _, ok := qt.located[element]; ok {
		return ErrElementExists
	}

	if !qt.bounds.Contains(aabb) {
		qt.located[element] = location{aabb: aabb, outside: true}
		qt.outside = append(qt.outside, element)
		return nil
	}

	qt.located[element] = location{aabb: aabb}
	qt.insert(&qt.root, qt.bounds, 0, element, aabb)

	return nil
}

func (qt *QuadTree[T]) insert(node *quadNode[T], region actor.AABB, depth int, element T, aabb actor.AABB) {
	if !node.isLeaf() {
		// this is a node so just pass it to the children
		quadrants := region.Quadrants()
		for i := range quadrants {
			if quadrants[i].Overlaps(aabb) {
				qt.insert(&node.children[i], quadrants[i], depth+1, element, aabb)
			}
		}
		return
	}

	if len(node.elements)+1 > qt.config.MaxElements && depth < qt.config.MaxDepth {
		qt.split(node, region, depth)
		qt.insert(node, region, depth, element, aabb)
		return
	}

	node.elements = append(node.elements, element)
}

// split turns a leaf into a branch and moves its elements to the new children
func (qt *QuadTree[T]) split(node *quadNode[T], region actor.AABB, depth int) {
	elements := node.elements
	node.elements = nil
	node.children = new([4]quadNode[T])

	for _, element := range elements {
		qt.insert(node, region, depth, element, qt.located[element].aabb)
	}
}

// Remove unlinks the element from every leaf it was filed under.
// A missing element is a structural inconsistency and reported as ErrElementNotFound.
func (qt *QuadTree[T]) Remove(element T) error {
	loc, ok := qt.located[element]
	if !ok {
		return ErrElementNotFound
	}
	delete(qt.located, element)

	if loc.outside {
		k := slices.Index(qt.outside, element)
		if k == -1 {
			return fmt.Errorf("outside list: %w", ErrElementNotFound)
		}
		qt.outside = slices.Delete(qt.outside, k, k+1)
		return nil
	}

	if removed := qt.remove(&qt.root, qt.bounds, element, loc.aabb); removed == 0 {
		return fmt.Errorf("no leaf under %v: %w", loc.aabb, ErrElementNotFound)
	}

	return nil
}

func (qt *QuadTree[T]) remove(node *quadNode[T], region actor.AABB, element T, aabb actor.AABB) int {
	if node.isLeaf() {
		k := slices.Index(node.elements, element)
		if k == -1 {
			return 0
		}
		node.elements = slices.Delete(node.elements, k, k+1)
		return 1
	}

	removed := 0
	quadrants := region.Quadrants()
	for i := range quadrants {
		if quadrants[i].Overlaps(aabb) {
			removed += qt.remove(&node.children[i], quadrants[i], element, aabb)
		}
	}

	return removed
}

// Update moves an element to new bounds. Unknown elements are inserted.
// The element is always filed under aabb on return, even if the removal failed.
func (qt *QuadTree[T]) Update(element T, aabb actor.AABB) error {
	loc, ok := qt.located[element]
	if !ok {
		return qt.Insert(element, aabb)
	}
	if loc.aabb == aabb {
		return nil
	}

	err := qt.Remove(element)
	if insertErr := qt.Insert(element, aabb); insertErr != nil {
		return errors.Join(err, insertErr)
	}

	return err
}

// Query calls visit for every element of every leaf overlapping aabb.
// Elements straddling several leaves are visited once per leaf.
func (qt *QuadTree[T]) Query(aabb actor.AABB, visit func(element T)) {
	for _, element := range qt.outside {
		if qt.located[element].aabb.Overlaps(aabb) {
			visit(element)
		}
	}

	if qt.bounds.Overlaps(aabb) {
		qt.query(&qt.root, qt.bounds, aabb, visit)
	}
}

func (qt *QuadTree[T]) query(node *quadNode[T], region actor.AABB, aabb actor.AABB, visit func(element T)) {
	if node.isLeaf() {
		for _, element := range node.elements {
			visit(element)
		}
		return
	}

	quadrants := region.Quadrants()
	for i := range quadrants {
		if quadrants[i].Overlaps(aabb) {
			qt.query(&node.children[i], quadrants[i], aabb, visit)
		}
	}
}

// Cleanup collapses every branch whose four children are empty leaves
func (qt *QuadTree[T]) Cleanup() {
	collapse(&qt.root)
}

// collapse returns true if the node ends up an empty leaf
func collapse[T comparable](node *quadNode[T]) bool {
	if node.isLeaf() {
		return len(node.elements) == 0
	}

	empty := true
	for i := range node.children {
		if !collapse(&node.children[i]) {
			empty = false
		}
	}

	if empty {
		node.children = nil
		node.elements = nil
	}

	return empty
}

// Clear removes every element, keeping the bounds
func (qt *QuadTree[T]) Clear() {
	qt.root = quadNode[T]{}
	qt.outside = qt.outside[:0]
	clear(qt.located)
}

// Reset clears the tree and moves it to new bounds
func (qt *QuadTree[T]) Reset(bounds actor.AABB) {
	qt.Clear()
	qt.bounds = bounds
}

// Walk visits every node, depth first, with its region and depth
func (qt *QuadTree[T]) Walk(visit func(region actor.AABB, depth int, leaf bool, elements []T)) {
	walk(&qt.root, qt.bounds, 0, visit)
}

func walk[T comparable](node *quadNode[T], region actor.AABB, depth int, visit func(region actor.AABB, depth int, leaf bool, elements []T)) {
	visit(region, depth, node.isLeaf(), node.elements)
	if node.isLeaf() {
		return
	}

	quadrants := region.Quadrants()
	for i := range quadrants {
		walk(&node.children[i], quadrants[i], depth+1, visit)
	}
}
