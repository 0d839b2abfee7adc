package main

import (
	"math"
	"testing"
)

func TestMotionNudgeTravel(t *testing.T) {
	for _, fps := range []int{15, 30, 60} {
		m := newMotion(fps)
		m.Nudge(10, -20, 5)

		var sv, sh, sz float64
		frames := 0
		for ; frames < 100*fps; frames++ {
			dv, dh, dz, moving := m.Step()
			if !moving {
				break
			}
			sv, sh, sz = sv+dv, sh+dh, sz+dz
		}
		if frames == 100*fps {
			t.Fatalf("fps %d: motion never settled", fps)
		}

		for _, c := range []struct {
			name      string
			got, want float64
		}{
			{"vertical", sv, 10},
			{"horizontal", sh, -20},
			{"zoom", sz, 5},
		} {
			if math.Abs(c.got-c.want) > 0.15*math.Abs(c.want) {
				t.Errorf("fps %d: %s travel %.3f, want about %v", fps, c.name, c.got, c.want)
			}
		}
	}
}

func TestMotionIdle(t *testing.T) {
	m := newMotion(30)
	if _, _, _, moving := m.Step(); moving {
		t.Error("fresh motion should be idle")
	}

	m.Nudge(10, 0, 0)
	m.Stop()
	if _, _, _, moving := m.Step(); moving {
		t.Error("Stop should drop all velocity")
	}
}
