package inspect

import (
	"github.com/mitchellh/reflectwalk"
	"math"
	"reflect"
	"strings"
)

// Floats returns every floating point value reachable from v, keyed by the dotted path of its struct field
// (array and slice elements share the key of their field). v must not contain reference cycles.
func Floats(v interface{}) map[string][]float64 {
	w := &floatWalker{res: map[string][]float64{}}
	if err := reflectwalk.Walk(v, w); err != nil {
		panic(err) // The walker never fails
	}
	return w.res
}

// NonFinite returns the paths (see Floats) holding a NaN or an infinity, or nil if every value is finite.
func NonFinite(v interface{}) []string {
	var res []string
	for path, values := range Floats(v) {
		for _, f := range values {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				res = append(res, path)
				break
			}
		}
	}
	return res
}

type floatWalker struct {
	res   map[string][]float64
	path  []string
	depth []int // Walker depth at which each path element was pushed
	cur   int
}

func (w *floatWalker) Enter(loc reflectwalk.Location) error {
	w.cur++
	return nil
}

func (w *floatWalker) Exit(loc reflectwalk.Location) error {
	w.cur--
	for len(w.depth) > 0 && w.depth[len(w.depth)-1] > w.cur {
		w.path = w.path[:len(w.path)-1]
		w.depth = w.depth[:len(w.depth)-1]
	}
	return nil
}

func (w *floatWalker) Struct(reflect.Value) error {
	return nil
}

func (w *floatWalker) StructField(f reflect.StructField, _ reflect.Value) error {
	for len(w.depth) > 0 && w.depth[len(w.depth)-1] >= w.cur {
		w.path = w.path[:len(w.path)-1]
		w.depth = w.depth[:len(w.depth)-1]
	}
	w.path = append(w.path, f.Name)
	w.depth = append(w.depth, w.cur)
	return nil
}

func (w *floatWalker) Primitive(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		key := strings.Join(w.path, ".")
		w.res[key] = append(w.res[key], v.Float())
	}
	return nil
}
