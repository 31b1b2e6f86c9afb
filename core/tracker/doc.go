// Package tracker retrieves the assets around a cargo origin and ranks them
// by efficiency. The ranked list it returns is the order in which the audit
// stage evaluates candidates and must not be re-sorted downstream.
package tracker
