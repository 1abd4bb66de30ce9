// Package job runs background work outside the request/response cycle.
//
// Jobs are persisted before they are queued, so work that was pending or in
// flight when the process stopped is picked up again on the next start.
// Persisted jobs are turned back into runnable jobs through a Registry of
// factories keyed by job type.
package job
