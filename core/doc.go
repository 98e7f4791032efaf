// Package core provides the foundational domain types and contracts of the
// uboot bus. It defines the abstractions for:
//
//   - Uboots (addressable actors owning a private state snapshot)
//   - Radios (per uboot, per channel endpoints exposing send/receive/mutate)
//   - Subscriptions (cancellable receiver or reducer registrations)
//   - Oceans (registries owning uboots and channel membership)
//   - Middleware (interceptors wrapping every constructed object)
//   - Results (the outcome of one send or broadcast call)
//
// Membership bookkeeping, delivery and locking live in package ocean, the
// in-process implementation.
package core
