// Package canon provides the canonical forms used for identity: the memo
// key of a search state, canonical JSON, and the request fingerprint that
// groups runs of the same puzzle.
package canon
