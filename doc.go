// Package leebox is a client for the Leebox room service: a host creates a
// room, players join it from their own devices, and the host sends them
// messages and prompts (free text, multiple choice, drawings) and collects the
// answers.
//
// A Session holds the service address and the HTTP client shared by every Room
// it creates. A Room mirrors the server's view of one room; call Sync to
// refresh it. Player values are snapshots: each Sync replaces them, so keep
// anything long-lived keyed by Player.ID rather than by *Player.
package leebox
