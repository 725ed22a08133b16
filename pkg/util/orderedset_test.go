package util

import (
	"testing"

	"github.com/scriptlang/pyfrontend/pkg/util/assert"
)

func Test_OrderedSet_PreservesInsertionOrder(t *testing.T) {
	set := NewOrderedSet()

	for _, name := range []string{"z", "a", "m", "a", "z"} {
		set.Add(name)
	}

	assert.Equal(t, []string{"z", "a", "m"}, set.Items())
	assert.Equal(t, 3, set.Len())
}

func Test_OrderedSet_AddReturnsWhetherChanged(t *testing.T) {
	set := NewOrderedSet()

	assert.True(t, set.Add("x"), "first insertion of x should report a change")
	assert.False(t, set.Add("x"), "re-insertion of x should report no change")
}

func Test_OrderedSet_Contains(t *testing.T) {
	set := NewOrderedSet()
	set.Add("foo")

	assert.True(t, set.Contains("foo"))
	assert.False(t, set.Contains("bar"))
}

func Test_OrderedSet_RemovePreservesSurvivorOrder(t *testing.T) {
	set := NewOrderedSet()

	for _, name := range []string{"a", "b", "c", "d"} {
		set.Add(name)
	}

	assert.True(t, set.Remove("b"))
	assert.Equal(t, []string{"a", "c", "d"}, set.Items())
	assert.False(t, set.Contains("b"))
}

func Test_OrderedSet_RemoveMissingIsNoop(t *testing.T) {
	set := NewOrderedSet()
	set.Add("a")

	assert.False(t, set.Remove("nope"))
	assert.Equal(t, 1, set.Len())
}
