// Package services implements the stores use cases on top of the repositories.
//
// Every call resolves the caller's ACL from the context, waits for a slot in the
// shared Pool and then runs its database work. Use cases that touch several rows
// run in a single transaction so a denied or failed step leaves nothing behind.
// Search use cases query the index first and hydrate the ids through the
// repositories, so index hits the caller may not read are dropped.
package services
