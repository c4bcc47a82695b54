package utils

// Rect 世界坐标中的轴对齐矩形，用于描述摄像机可视范围
type Rect struct {
	Center Vec2
	HalfW  float64
	HalfH  float64
}

// RectFromCenter 以中心点与宽高构造矩形
func RectFromCenter(center Vec2, width, height float64) Rect {
	return Rect{Center: center, HalfW: width / 2, HalfH: height / 2}
}

// Min 左下角
func (r Rect) Min() Vec2 {
	return Vec2{X: r.Center.X - r.HalfW, Y: r.Center.Y - r.HalfH}
}

// Max 右上角
func (r Rect) Max() Vec2 {
	return Vec2{X: r.Center.X + r.HalfW, Y: r.Center.Y + r.HalfH}
}

// Expand 四边各向外扩张 margin
func (r Rect) Expand(margin float64) Rect {
	return Rect{Center: r.Center, HalfW: r.HalfW + margin, HalfH: r.HalfH + margin}
}

// Contains 判断点是否位于矩形内（含边界）
func (r Rect) Contains(p Vec2) bool {
	dx := p.X - r.Center.X
	dy := p.Y - r.Center.Y
	return dx >= -r.HalfW && dx <= r.HalfW && dy >= -r.HalfH && dy <= r.HalfH
}

// ContainsStrict 判断点是否严格位于矩形内部（不含边界）
func (r Rect) ContainsStrict(p Vec2) bool {
	dx := p.X - r.Center.X
	dy := p.Y - r.Center.Y
	return dx > -r.HalfW && dx < r.HalfW && dy > -r.HalfH && dy < r.HalfH
}

// ExitDistance 返回从中心沿单位方向 dir 射出、离开矩形时经过的距离。
// dir 为零向量时返回 0。
func (r Rect) ExitDistance(dir Vec2) float64 {
	if dir.IsZero() {
		return 0
	}
	best := -1.0
	if dir.X != 0 {
		t := r.HalfW / abs(dir.X)
		best = t
	}
	if dir.Y != 0 {
		t := r.HalfH / abs(dir.Y)
		if best < 0 || t < best {
			best = t
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
