package encounter

import "sync/atomic"

// Lives is the player's health collaborator: one life per fall
type Lives struct {
	left atomic.Int32
}

// NewLives starts with n lives
func NewLives(n int) *Lives {
	l := &Lives{}
	l.left.Store(int32(n))
	return l
}

// Lives implements combat.LivesSource
func (l *Lives) Lives() int {
	return int(l.left.Load())
}

// Lose takes one life and returns what remains, never below zero
func (l *Lives) Lose() int {
	for {
		cur := l.left.Load()
		if cur <= 0 {
			return 0
		}
		if l.left.CompareAndSwap(cur, cur-1) {
			return int(cur - 1)
		}
	}
}
