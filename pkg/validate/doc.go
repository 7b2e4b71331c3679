// Package validate walks values against schema trees.
//
// Validation never stops at the first failure: every declared field is
// visited and every constraint of a type-matching node is checked, so the
// returned schema.Result lists the complete set of violations. The engine is
// pure and safe for concurrent use, including calls sharing one schema.
//
// ValidateAtPath validates a single sub-tree. Resolving the path against the
// schema is strict (a *PathError aborts the call), while resolving it against
// the value is lenient (missing keys yield nil, which the leaf then rejects).
package validate
