// Package scenario generates and grades accounting drill questions.
//
// Each family follows the same pipeline: Draw picks primitive parameters
// from a random.Source, Build derives the given figures from them, and New
// solves the given figures into a hidden answer. Tests fix the parameters
// or the given figures directly; Generate composes all three.
//
// Validate grades a submission with every sub-check ANDed together.
// Penalties produces the remedial repeats for a wrong answer.
package scenario

import "errors"

// ErrUnknownVariant is returned for a family or sub-variant that does not
// exist.
var ErrUnknownVariant = errors.New("unknown variant")
