package optimizer

import "reflect"

// callMust invokes fn via reflection and lets any panic propagate
// unrecovered: fusion builds composed closures that are themselves invoked
// later through the strategy package's recover boundary, so a panic here
// should surface exactly as it would have from the unfused call chain.
func callMust(fn any, args ...any) any {
	fv := reflect.ValueOf(fn)
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		in[i] = reflect.ValueOf(a)
	}
	out := fv.Call(in)
	if len(out) == 0 {
		return nil
	}
	return out[0].Interface()
}

func callBoolMust(fn any, args ...any) bool {
	return callMust(fn, args...).(bool)
}
