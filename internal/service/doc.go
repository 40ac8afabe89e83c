// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Key components:
//
// 1. Service Interfaces:
//   - UserService resolves and registers users
//   - TaskService manages tasks scoped to their owner
//   - HealthService reports whether the database is reachable
//
// 2. Use Case Implementations:
//   - Apply transactional boundaries when an operation reads then writes
//   - Enforce ownership: a task owned by someone else is reported as not found
//
// 3. Error Handling:
//   - Store sentinel errors are wrapped with %w and pass through unchanged in
//     meaning; the API layer maps them to status codes
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
