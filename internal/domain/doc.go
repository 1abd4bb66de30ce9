// Package domain contains the core business entities, value objects, and
// domain logic of the application: projects, tasks with their status state
// machine and priorities, users, and the filter and pagination values used
// to list tasks. It is independent of any storage or delivery mechanism.
package domain
