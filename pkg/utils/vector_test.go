package utils

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestVec2Basics(t *testing.T) {
	t.Run("加减与缩放", func(t *testing.T) {
		v := V(1, 2).Add(V(3, 4)).Sub(V(1, 1)).Scale(2)
		if v != V(6, 10) {
			t.Errorf("Expected (6,10), got %v", v)
		}
	})

	t.Run("归一化零向量", func(t *testing.T) {
		if n := (Vec2{}).Normalize(); !n.IsZero() {
			t.Errorf("Expected zero vector, got %v", n)
		}
	})

	t.Run("归一化长度为 1", func(t *testing.T) {
		n := V(3, 4).Normalize()
		if math.Abs(n.Len()-1) > eps {
			t.Errorf("Expected unit length, got %f", n.Len())
		}
	})

	t.Run("旋转 90 度等于 Perp", func(t *testing.T) {
		a := V(2, 1).Rotate(math.Pi / 2)
		b := V(2, 1).Perp()
		if Dist(a, b) > eps {
			t.Errorf("Expected %v, got %v", b, a)
		}
	})
}

func TestMoveTowards(t *testing.T) {
	got := MoveTowards(V(0, 0), V(10, 0), 3)
	if Dist(got, V(3, 0)) > eps {
		t.Errorf("Expected (3,0), got %v", got)
	}
	got = MoveTowards(V(0, 0), V(1, 0), 3)
	if got != V(1, 0) {
		t.Errorf("Expected target not to be overshot, got %v", got)
	}
}

func TestRect(t *testing.T) {
	r := RectFromCenter(V(0, 0), 20, 10)

	tests := []struct {
		name   string
		p      Vec2
		inside bool
		strict bool
	}{
		{"中心", V(0, 0), true, true},
		{"边界", V(10, 0), true, false},
		{"外部", V(11, 0), false, false},
		{"纵向外部", V(0, 6), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if r.Contains(tt.p) != tt.inside {
				t.Errorf("Contains(%v): expected %v", tt.p, tt.inside)
			}
			if r.ContainsStrict(tt.p) != tt.strict {
				t.Errorf("ContainsStrict(%v): expected %v", tt.p, tt.strict)
			}
		})
	}

	t.Run("射线出射距离", func(t *testing.T) {
		if d := r.ExitDistance(V(1, 0)); math.Abs(d-10) > eps {
			t.Errorf("Expected 10, got %f", d)
		}
		if d := r.ExitDistance(V(0, -1)); math.Abs(d-5) > eps {
			t.Errorf("Expected 5, got %f", d)
		}
		if d := r.Expand(2).ExitDistance(V(1, 0)); math.Abs(d-12) > eps {
			t.Errorf("Expected 12, got %f", d)
		}
	})
}
