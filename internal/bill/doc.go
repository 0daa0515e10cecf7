// Package bill defines the utility-bill record and the resolvers that turn a
// bill reference into one.
//
// The sizing core only depends on [Resolver]. Three adapters are provided:
//
//   - [HTTPResolver] queries a bill lookup service over HTTP.
//   - [FixtureResolver] serves records from a YAML file and can reload it
//     when the file changes.
//   - [CachingResolver] decorates any resolver with a TTL cache of
//     successful lookups.
//
// Resolvers report failures as *errors.ResolutionError so callers can tell
// an unknown reference from a malformed one or an unreachable service.
package bill
