package selftest

// CompareForTest exposes compare.
var CompareForTest = compare
