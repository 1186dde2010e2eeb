// Package expr loads declarative expression files into computation graphs.
//
// An expression file names its leaves and computed nodes explicitly; every
// argument must reference an already-defined name, so a well-formed file can
// only describe a DAG. All structural problems (duplicate names, unknown ops,
// arity mismatches, undefined references) are rejected at load time with
// errors that identify the offending entry.
package expr
