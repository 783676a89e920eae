package ufunc

import "github.com/101arrowz/nadder/internal/ndarray"

// Relational operators. Comparisons involving NaN are false.
var (
	Gt  = New("gt", 2, 1, nil, compareImpls(greater[uint64], greater[int64], greater[float64])...)
	Gte = New("gte", 2, 1, nil, compareImpls(greaterEqual[uint64], greaterEqual[int64], greaterEqual[float64])...)
	Lt  = New("lt", 2, 1, nil, compareImpls(less[uint64], less[int64], less[float64])...)
	Lte = New("lte", 2, 1, nil, compareImpls(lessEqual[uint64], lessEqual[int64], lessEqual[float64])...)
)

// Equality works on every type. Numbers compare by value, complex numbers
// by both parts, strings and objects by identity.
var (
	Eq = New("eq", 2, 1, nil, append(
		compareImpls(equal[uint64], equal[int64], equal[float64]),
		binaryImpl(numericTypes, ndarray.Bool, ndarray.Complex, binary(equal[complex128])),
		binaryImpl(ndarray.AllTypes, ndarray.Bool, ndarray.Any, binary(looseEqual)),
	)...)

	Ne = New("ne", 2, 1, nil, append(
		compareImpls(notEqual[uint64], notEqual[int64], notEqual[float64]),
		binaryImpl(numericTypes, ndarray.Bool, ndarray.Complex, binary(notEqual[complex128])),
		binaryImpl(ndarray.AllTypes, ndarray.Bool, ndarray.Any, binary(looseNotEqual)),
	)...)
)

// Logical operators treat non-zero numbers as true.
var (
	And = New("and", 2, 1, true, binaryImpl(numericTypes, ndarray.Bool, ndarray.Bool, binary(logicalAnd)))
	Or  = New("or", 2, 1, false, binaryImpl(numericTypes, ndarray.Bool, ndarray.Bool, binary(logicalOr)))
	Xor = New("xor", 2, 1, false, binaryImpl(numericTypes, ndarray.Bool, ndarray.Bool, binary(logicalXor)))
	Not = New("not", 1, 1, nil, unaryImpl(numericTypes, ndarray.Bool, ndarray.Bool, unary(logicalNot)))
)
