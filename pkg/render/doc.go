// Package render turns arbitrary log context values and errors into short,
// bounded text suitable for a chat notification.
//
// Every function in this package is total: it returns a string for any input
// and recovers from panics raised by the values it inspects.
package render
