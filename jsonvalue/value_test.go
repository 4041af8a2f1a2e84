package jsonvalue_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/lattice-substrate/jsonparse/jsonvalue"
)

func sample() *jsonvalue.Object {
	inner := jsonvalue.NewObject()
	inner.Set("baz", jsonvalue.NewArray(jsonvalue.Number("1"), jsonvalue.Number("2"), "four"))
	o := jsonvalue.NewObject()
	o.Set("foo", jsonvalue.Number("1"))
	o.Set("bar", inner)
	o.Set("nil", nil)
	return o
}

func TestObjectKeepsInsertionOrder(t *testing.T) {
	o := jsonvalue.NewObject()
	for _, k := range []string{"z", "a", "m"} {
		o.Set(k, true)
	}
	o.Set("z", false)
	if got, want := o.Keys(), []string{"z", "a", "m"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if v, _ := o.Get("z"); v != false {
		t.Fatalf("z = %v, want false", v)
	}
	if !o.Delete("a") || o.Delete("a") {
		t.Fatal("Delete did not report presence correctly")
	}
	if o.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", o.Len())
	}
}

func TestMarshalJSON(t *testing.T) {
	got, err := json.Marshal(sample())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"foo":1,"bar":{"baz":[1,2,"four"]},"nil":null}`
	if string(got) != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestAttachIsSetOnceAndHidden(t *testing.T) {
	o := sample()
	f := jsonvalue.Format{Indent: "\t", Newline: "\r\n"}
	if !jsonvalue.Attach(o, f) {
		t.Fatal("first Attach failed")
	}
	if jsonvalue.Attach(o, jsonvalue.Format{Indent: " "}) {
		t.Fatal("second Attach succeeded")
	}
	got, ok := jsonvalue.FormatOf(o)
	if !ok || got != f {
		t.Fatalf("FormatOf = %+v, %v; want %+v", got, ok, f)
	}
	if !jsonvalue.Equal(o, sample()) {
		t.Fatal("attached format changed content equality")
	}
	if o.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", o.Len())
	}
	if jsonvalue.Attach("scalar", f) {
		t.Fatal("Attach accepted a scalar")
	}
	if _, ok := jsonvalue.FormatOf(jsonvalue.NewArray()); ok {
		t.Fatal("fresh array reports a format")
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{"null", nil, nil, true},
		{"null vs false", nil, false, false},
		{"numbers by value", jsonvalue.Number("1.0"), jsonvalue.Number("1"), true},
		{"numbers differ", jsonvalue.Number("1e2"), jsonvalue.Number("10"), false},
		{"string vs number", "1", jsonvalue.Number("1"), false},
		{"objects", sample(), sample(), true},
		{"array length", jsonvalue.NewArray(nil), jsonvalue.NewArray(), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := jsonvalue.Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReviveBottomUp(t *testing.T) {
	var seen []string
	out := jsonvalue.Revive(sample(), func(key string, v any) any {
		seen = append(seen, key)
		if key == "foo" {
			return jsonvalue.Omit
		}
		if key == "1" {
			return jsonvalue.Omit
		}
		return v
	})
	want := []string{"foo", "0", "1", "2", "baz", "bar", "nil", ""}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("visit order = %v, want %v", seen, want)
	}
	o := out.(*jsonvalue.Object)
	if _, ok := o.Get("foo"); ok {
		t.Fatal("omitted member still present")
	}
	bar, _ := o.Get("bar")
	baz, _ := bar.(*jsonvalue.Object).Get("baz")
	arr := baz.(*jsonvalue.Array)
	if arr.Len() != 3 || arr.At(1) != nil {
		t.Fatalf("array after omit = %v", arr.Values())
	}
}

func TestReviveRootOmit(t *testing.T) {
	got := jsonvalue.Revive(jsonvalue.Number("1"), func(string, any) any { return jsonvalue.Omit })
	if got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
