package container

import "fmt"

// StringArray coerces every stored value to a string.
type StringArray []string

// NewStringArray returns n empty strings.
func NewStringArray(n int) StringArray {
	return make(StringArray, n)
}

// Len returns the number of elements.
func (s StringArray) Len() int { return len(s) }

// At returns the element at i.
func (s StringArray) At(i int) any { return s[i] }

// SetAt stores the string form of v at i.
func (s StringArray) SetAt(i int, v any) {
	if str, ok := v.(string); ok {
		s[i] = str
		return
	}
	s[i] = fmt.Sprint(v)
}

// Slice returns a view over [start, end).
func (s StringArray) Slice(start, end int) Storage { return s[start:end] }
