// Package service provides application-level services orchestrating task
// persistence, user management, and notification event emission.
package service
