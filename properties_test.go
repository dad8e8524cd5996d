package pave

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func propertyParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	return parameters
}

func sameResult[T any](a, b Result[T]) bool {
	return reflect.DeepEqual(a.Value(), b.Value()) && reflect.DeepEqual(a.Err(), b.Err())
}

func TestValidatorLaws(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	even := Predicate(func(n int) bool { return n%2 == 0 }, nil)

	properties.Property("validators are referentially transparent", prop.ForAll(
		func(n int) bool {
			return sameResult(even(n), even(n))
		},
		gen.Int(),
	))

	properties.Property("predicate accepts exactly the values it holds for", prop.ForAll(
		func(n int) bool {
			r := even(n)
			if n%2 == 0 {
				return r.IsOk() && r.Value() == n
			}
			return r.IsErr() && r.Err().Details[DetailInput] == n
		},
		gen.Int(),
	))

	properties.Property("list of a total validator is the identity", prop.ForAll(
		func(xs []string) bool {
			r := List(String())(xs)
			return r.IsOk() && reflect.DeepEqual(append([]string{}, xs...), r.Value())
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.Property("list reports the first failing element", prop.ForAll(
		func(xs []int) bool {
			r := List(even)(xs)
			for _, x := range xs {
				if x%2 != 0 {
					return r.IsErr() && r.Err().Details[DetailFailedElement] == x
				}
			}
			return r.IsOk()
		},
		gen.SliceOf(gen.IntRange(-50, 50)),
	))

	properties.Property("non empty list agrees with list on non empty input", prop.ForAll(
		func(xs []int) bool {
			if len(xs) == 0 {
				return NonEmptyList(even)(xs).Err().Reason == ReasonEmptyList
			}
			return sameResult(List(even)(xs), NonEmptyList(even)(xs))
		},
		gen.SliceOf(gen.IntRange(-50, 50)),
	))

	properties.Property("maybe passes nothing through", prop.ForAll(
		func(n int) bool {
			return Maybe(even)(Nothing[int]()).Value().IsNothing() &&
				Maybe(even)(Just(n)).IsOk() == even(n).IsOk()
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}

func TestConstructorLaws(t *testing.T) {
	properties := gopter.NewProperties(propertyParameters())

	c := MustNew([]FieldSpec{
		Field("n", Integer()),
		OptionalField("s", String()),
		DefaultField("b", Boolean(), false),
	})

	properties.Property("map and keyword list inputs are equivalent", prop.ForAll(
		func(n int, s string, withS bool) bool {
			m := map[string]any{"n": n}
			pairs := KV("n", n)
			if withS {
				m["s"] = s
				pairs = append(pairs, Pair{Key: "s", Value: s})
			}
			return sameResult(c.Run(m), c.Run(pairs))
		},
		gen.Int(), gen.AlphaString(), gen.Bool(),
	))

	properties.Property("unknown keys are ignored", prop.ForAll(
		func(n int, extra string) bool {
			base := c.Run(map[string]any{"n": n})
			noisy := c.Run(map[string]any{"n": n, "extra_" + extra: extra})
			return reflect.DeepEqual(base.Value(), noisy.Value()) && base.IsOk() && noisy.IsOk()
		},
		gen.Int(), gen.AlphaString(),
	))

	properties.Property("output holds exactly the declared fields", prop.ForAll(
		func(n int) bool {
			values := c.Run(map[string]any{"n": n}).Value()
			return len(values) == 3 &&
				values["n"] == n &&
				values["s"] == Nothing[any]() &&
				values["b"] == false
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}
