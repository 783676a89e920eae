package ufunc

import "sort"

var registry = map[string]*Ufunc{}

func init() {
	for _, u := range []*Ufunc{
		Add, Sub, Mul, FloorDiv, Div, Mod, Pow,
		BitAnd, BitOr, BitXor, Shl, Shr, BitNot,
		Abs, Conj, Pos, Neg,
		Sqrt, Exp, Exp2, Expm1, Sin, Cos, Tan,
		Gt, Gte, Lt, Lte, Eq, Ne,
		And, Or, Xor, Not,
	} {
		Register(u)
	}
}

// Register makes u available to Lookup under its name, replacing any
// ufunc registered with the same name.
func Register(u *Ufunc) {
	registry[u.name] = u
}

// Lookup returns the ufunc registered under name.
func Lookup(name string) (*Ufunc, bool) {
	u, ok := registry[name]
	return u, ok
}

// Names returns the registered names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
