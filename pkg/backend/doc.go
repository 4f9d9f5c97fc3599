// Package backend defines the storage contract behind server-side sessions and
// ships four implementations of it: an in-memory map, a per-session file on
// the local filesystem, Redis, and PostgreSQL.
//
// Backends are namespace-agnostic. They receive fully-qualified keys (the
// session layer prefixes every key with the session namespace) and treat
// values as opaque bytes.
//
// # Contract
//
//   - Get returns one slot per requested key; missing keys yield nil, not an error.
//   - Set overwrites. WithTTL is honoured where the backend supports expiry.
//   - Update is a bulk Set. Visibility of a partially applied Update to
//     concurrent readers is backend specific and not guaranteed to be atomic.
//   - Delete is idempotent.
//   - Exists counts the arguments that are present (duplicates count twice).
//   - Keys, Clear and Len take a pattern.
//
// # Pattern dialect
//
// A pattern is a key prefix; the empty pattern selects every key. Each backend
// evaluates it natively:
//
//   - Memory and File: strings.HasPrefix.
//   - Redis: SCAN MATCH with glob metacharacters in the prefix escaped and "*"
//     appended.
//   - Postgres: LIKE with "%", "_" and "\" escaped and "%" appended.
//
// # Persistence
//
// Backends that keep a working copy in memory (File) also implement Persister.
// Their writes become durable only after Save. Write-through backends (Memory,
// Redis, Postgres) do not implement it.
//
// # Selection
//
// A Registry maps identifiers (Memory, Filesystem, KeyValueRemote, Database)
// to Factory functions. Looking up an unknown identifier fails with
// ErrBackendImport.
package backend
