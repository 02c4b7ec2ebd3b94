// Package domain contains the core entities of the application: tasks,
// users, and the actions that mutate tasks. Domain types carry their own
// validation and have no dependencies on storage or transport concerns.
package domain
