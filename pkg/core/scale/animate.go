package scale

import "time"

// Animatable is implemented by render handles that have idle motion.
type Animatable interface {
	Animate(dt time.Duration)
}

// Animate advances every visible entity whose handle implements
// [Animatable] by dt, and returns how many handles were advanced.
func Animate(res *Result, dt time.Duration) int {
	if res == nil {
		return 0
	}
	n := 0
	for _, s := range res.States {
		if !s.Visible {
			continue
		}
		if a, ok := s.Entity.Handle.(Animatable); ok {
			a.Animate(dt)
			n++
		}
	}
	return n
}
