package typelattice

// Infer returns the most specific lattice type for a literal Go value.
// Used only for Constant nodes: Bool is checked before Int before Float;
// a []any recurses into the first element and defaults to List(Any) for an
// empty slice.
func Infer(v any) Type {
	switch val := v.(type) {
	case bool:
		return Bool{}
	case int, int32, int64:
		return Int{}
	case float32, float64:
		return Float{}
	case []any:
		if len(val) == 0 {
			return List{Elem: Any{}}
		}
		return List{Elem: Infer(val[0])}
	default:
		return Any{}
	}
}
