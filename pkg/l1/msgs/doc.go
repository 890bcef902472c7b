// Package msgs provides L1 protocol support and the generic message schemas.
//
// Every message crossing an L1 link is wrapped in a Typed envelope whose
// TypeId selects the decoder registered in MessageTypes. Device packages
// register their own messages in a custom group from init().
package msgs
