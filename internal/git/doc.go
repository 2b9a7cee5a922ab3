// Package git wraps the few git CLI queries the resolver needs: the origin
// remote URL and the checked-out branch. Every call is bounded by a timeout
// and the executor is injectable so callers can be tested without git.
package git
