// Package same implements the strict equality used by the hooks engine and
// attribute sync.
//
// Comparable values are equal when == holds. Slices, maps, funcs and chans
// are equal only when they share the same underlying pointer (and, for
// slices, length), which mirrors reference identity.
package same

import "reflect"

// Values reports whether a and b are strictly equal.
func Values(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return safeEqual(a, b)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	}
	return false
}

// safeEqual compares two values of a comparable type. Structs and arrays
// report Comparable even when an interface field holds an uncomparable
// value, which makes == panic at runtime.
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Prefix reports whether a and b agree element-wise over the shorter of the
// two lengths.
func Prefix(a, b []any) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if !Values(a[i], b[i]) {
			return false
		}
	}
	return true
}
