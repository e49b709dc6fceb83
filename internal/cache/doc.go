// Package cache provides a size-accounted LRU.
//
// Every entry carries a cost in bytes. The cache evicts least recently used
// entries to stay within its own capacity and, when a resource.Controller is
// attached, reserves each entry's cost from the shared memory budget so that
// several caches in one process respect a global limit.
package cache
