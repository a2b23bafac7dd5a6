// Package sanitizer provides composable string transformations applied to
// request input before validation.
//
//	clean := sanitizer.Compose(sanitizer.RemoveControlChars, sanitizer.Trim)
//	name := clean(in.Name)
package sanitizer
