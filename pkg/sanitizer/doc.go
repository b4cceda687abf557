// Package sanitizer normalises user-supplied strings before validation and
// storage. Functions are pure and can be chained with Apply or Compose.
package sanitizer
