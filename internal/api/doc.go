// Package api implements the HTTP handlers and request/response models
// for the task management API.
package api
