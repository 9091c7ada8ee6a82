package octree

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"go.viam.com/test"

	"github.com/HexaEngine/HexaEngine-sub024/logging"
	"github.com/HexaEngine/HexaEngine-sub024/spatialmath"
)

func makeQueryTree(t *testing.T) *Octree[string] {
	t.Helper()
	tree := NewDefault[string](makeWorld(t, -64, 64), logging.NewTestLogger(t))
	test.That(t, tree.AddObject("a", sphereAt(-32, -32, -32, 1)), test.ShouldBeTrue)
	test.That(t, tree.AddObject("b", sphereAt(32, 32, 32, 1)), test.ShouldBeTrue)
	test.That(t, tree.AddObject("c", sphereAt(0, 0, 0, 1)), test.ShouldBeTrue)
	for k := range 33 {
		tree.AddObject(fmt.Sprintf("filler-%d", k), sphereAt(-50, -50, -50+float64(k)*0.5, 0.1))
	}
	test.That(t, tree.NodeCount(), test.ShouldBeGreaterThan, 1)
	return tree
}

func TestEnumerateObjects(t *testing.T) {
	tree := makeQueryTree(t)
	stack := NewWalkStack()

	t.Run("idempotent", func(t *testing.T) {
		first := slices.Collect(tree.Objects(stack))
		second := slices.Collect(tree.Objects(stack))
		test.That(t, first, test.ShouldHaveLength, 36)
		slices.Sort(first)
		slices.Sort(second)
		test.That(t, second, test.ShouldResemble, first)
	})

	t.Run("object filter with userdata", func(t *testing.T) {
		prefix := "filler-"
		objects := slices.Collect(EnumerateObjects(tree, prefix, stack, nil,
			func(entry *Entry[string], prefix string) FilterResult {
				return keepIf(!strings.HasPrefix(entry.Value, prefix))
			}))
		slices.Sort(objects)
		test.That(t, objects, test.ShouldResemble, []string{"a", "b", "c"})
	})

	t.Run("skipping nodes prunes subtrees", func(t *testing.T) {
		visited := 0
		objects := slices.Collect(EnumerateObjects(tree, struct{}{}, stack,
			func(*Node[string], struct{}) FilterResult {
				visited++
				return Skip
			},
			KeepAllObjects[string, struct{}]))
		// The root is always visited, and only "c" straddles the root's octant planes.
		test.That(t, objects, test.ShouldResemble, []string{"c"})
		test.That(t, visited, test.ShouldEqual, 8)
	})

	t.Run("early stop", func(t *testing.T) {
		count := 0
		for range tree.Objects(stack) {
			count++
			if count == 3 {
				break
			}
		}
		test.That(t, count, test.ShouldEqual, 3)
		test.That(t, slices.Collect(tree.Objects(stack)), test.ShouldHaveLength, 36)
	})

	t.Run("nil stack", func(t *testing.T) {
		test.That(t, slices.Collect(tree.Objects(nil)), test.ShouldHaveLength, 36)
	})

	t.Run("lazy", func(t *testing.T) {
		calls := 0
		seq := EnumerateObjects(tree, 0, stack, nil, func(*Entry[string], int) FilterResult {
			calls++
			return Keep
		})
		test.That(t, calls, test.ShouldEqual, 0)
		test.That(t, lo.Uniq(slices.Collect(seq)), test.ShouldHaveLength, 36)
		test.That(t, calls, test.ShouldEqual, 36)
	})
}

func TestEnumerateEmptyTree(t *testing.T) {
	tree := NewDefault[int](makeWorld(t, -1, 1), logging.NewTestLogger(t))
	test.That(t, collect(tree), test.ShouldBeEmpty)

	// A tree without live nodes yields nothing, even from the root.
	var empty Octree[int]
	test.That(t, slices.Collect(empty.Objects(nil)), test.ShouldBeEmpty)
}

func TestQueries(t *testing.T) {
	tree := makeQueryTree(t)
	stack := NewWalkStack()

	sorted := func(objects []string) []string {
		slices.Sort(objects)
		return objects
	}

	t.Run("box", func(t *testing.T) {
		box, err := spatialmath.NewBox(r3.Vector{X: -40, Y: -40, Z: -40}, r3.Vector{X: -24, Y: -24, Z: -24})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, sorted(slices.Collect(tree.QueryBox(box, stack))), test.ShouldResemble, []string{"a"})

		everything := tree.WorldBounds()
		test.That(t, slices.Collect(tree.QueryBox(everything, stack)), test.ShouldHaveLength, 36)
	})

	t.Run("sphere", func(t *testing.T) {
		query := sphereAt(32, 32, 32, 2)
		test.That(t, sorted(slices.Collect(tree.QuerySphere(query, stack))), test.ShouldResemble, []string{"b"})

		query = sphereAt(0, 0, 0, 60)
		test.That(t, sorted(slices.Collect(tree.QuerySphere(query, stack))), test.ShouldResemble, []string{"a", "b", "c"})
	})

	t.Run("frustum", func(t *testing.T) {
		box, err := spatialmath.NewBox(r3.Vector{}, r3.Vector{X: 64, Y: 64, Z: 64})
		test.That(t, err, test.ShouldBeNil)
		frustum := spatialmath.NewFrustumFromBox(box)
		test.That(t, sorted(slices.Collect(tree.QueryFrustum(&frustum, stack))), test.ShouldResemble, []string{"b", "c"})
	})
}
