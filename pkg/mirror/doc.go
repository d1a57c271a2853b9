// Package mirror keeps the cosmic-zoom web assets available offline.
//
// A [Mirror] sits between clients and the upstream origin that hosts the
// visualization. Its lifecycle has three phases:
//
//   - [Mirror.Install] fetches every asset of the [Manifest] into the cache.
//     Failures are counted but never abort the install.
//   - [Mirror.Activate] evicts cached entries that belong to any version
//     other than the manifest's.
//   - [Mirror.ServeHTTP] answers GET requests cache-first. Misses go to the
//     network and successful responses are stored. When the network fails
//     the cache is consulted once more before giving up with 502.
//
// Bumping [Manifest.Version] and running install then activate replaces the
// whole asset set.
package mirror
