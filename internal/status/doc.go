// Package status holds the cluster membership snapshot reported by Galera.
//
// A Snapshot is built once per invocation from the optional wsrep notify
// fields (status, uuid, primary, members, index). Only fields that were
// supplied are rendered, and PresenceCount tells how many were supplied.
//
// # Rendering
//
// Render produces the plain-text report sent by every notification channel.
// The layout is fixed:
//
//	Galera running on db1 has reported the following cluster membership changes:
//
//	Status of this node: Synced
//
//	Cluster state UUID: 6b2c...
//
//	Current cluster component is primary: Yes
//
//	Current members of the component:
//	-- 0a1b...
//	-> 2c3d...
//
//	Index of this node in the member list: 1
//
// An index that is not a number, or that does not point into the member list,
// never fails rendering; the current-member marker is simply not shown.
package status
