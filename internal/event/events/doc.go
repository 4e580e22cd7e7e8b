// Package events defines the payload types and topics for the editor's own
// events. Each payload struct is the fixed schema carried by one topic.
package events
