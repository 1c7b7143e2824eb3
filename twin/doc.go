/*
Package twin defines the data model shared between the twin engine and the
HTTP gateway: immutable state snapshots with their properties, actions,
events and relationships, the change records produced by state recomputation,
and event notifications.

The engine itself is an external collaborator. It pushes snapshots and
notifications into the gateway and receives action submissions through the
ActionSubmitter contract.
*/
package twin
