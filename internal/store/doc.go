// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Every listing takes the owning user's ID
// explicitly; implementations never infer ownership from ambient state.
package store
