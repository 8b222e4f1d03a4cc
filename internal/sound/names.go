// Package sound plays short host console chimes.
package sound

// 提示音名称
const (
	Reconnect = "reconnect"
	Answers   = "answers"
)
