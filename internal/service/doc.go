// Package service contains the application use cases. Services load and
// save entities through the store interfaces, enforce ownership and apply
// the domain rules; they never depend on a concrete store implementation.
//
// Expected failures are returned as sentinel errors (ErrNotOwned,
// ErrProjectNotFound, ErrTaskNotFound, ErrInvalidCredentials) or as the
// domain and store errors that caused them. Everything else is wrapped in a
// ServiceError naming the failed operation. The API layer maps these to HTTP
// status codes with errors.Is.
package service
