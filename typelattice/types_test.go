package typelattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func int64p(n int64) *int64     { return &n }
func float64p(f float64) *float64 { return &f }
func intp(n int) *int           { return &n }

func TestAnyMatchesEverything(t *testing.T) {
	a := Any{}
	assert.True(t, a.Matches(1))
	assert.True(t, a.Matches("x"))
	assert.True(t, a.Matches(nil))
}

func TestIntBounds(t *testing.T) {
	ty := Int{Min: int64p(0), Max: int64p(10)}
	assert.True(t, ty.Matches(0))
	assert.True(t, ty.Matches(10))
	assert.False(t, ty.Matches(-1))
	assert.False(t, ty.Matches(11))
	assert.False(t, ty.Matches(true), "bool must not satisfy Int")
	assert.False(t, ty.Matches(1.5))
}

func TestFloatBounds(t *testing.T) {
	ty := Float{Min: float64p(0), Max: float64p(1)}
	assert.True(t, ty.Matches(0.5))
	assert.True(t, ty.Matches(1))
	assert.False(t, ty.Matches(1.1))
}

func TestBoolDisjointFromInt(t *testing.T) {
	assert.True(t, Bool{}.Matches(true))
	assert.False(t, Bool{}.Matches(1))
}

func TestListBoundsInclusive(t *testing.T) {
	ty := List{Elem: Int{}, MinLen: intp(1), MaxLen: intp(3)}
	assert.True(t, ty.Matches([]any{1}))
	assert.True(t, ty.Matches([]any{1, 2, 3}))
	assert.False(t, ty.Matches([]any{}))
	assert.False(t, ty.Matches([]any{1, 2, 3, 4}))
	assert.False(t, ty.Matches([]any{1, "x"}))
}

func TestInferPrefersBoolOverInt(t *testing.T) {
	assert.IsType(t, Bool{}, Infer(true))
	assert.IsType(t, Int{}, Infer(1))
	assert.IsType(t, Float{}, Infer(1.5))
}

func TestInferListRecursesFirstElement(t *testing.T) {
	ty := Infer([]any{1, 2, 3})
	lst, ok := ty.(List)
	assert.True(t, ok)
	assert.IsType(t, Int{}, lst.Elem)
}

func TestInferEmptyListDefaultsToAny(t *testing.T) {
	ty := Infer([]any{}).(List)
	assert.IsType(t, Any{}, ty.Elem)
}
