// Package utils 提供模拟核心共用的几何工具
//
// vector.go 定义世界坐标中的二维向量。
// 世界坐标以"单位"计量，Y 轴向上，与摄像机矩形 Rect 使用同一坐标系。
package utils

import "math"

// Vec2 二维向量（世界坐标）
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V 是 Vec2{X: x, Y: y} 的简写
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add 向量加法
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub 向量减法
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale 标量乘法
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dot 点积
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Len 向量长度
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// LenSq 向量长度的平方（比较距离时避免开方）
func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize 返回单位向量；零向量原样返回
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Perp 返回逆时针旋转 90° 的垂直向量
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Rotate 按弧度逆时针旋转
func (v Vec2) Rotate(rad float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// IsZero 判断是否为零向量
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Dist 两点间距离
func Dist(a, b Vec2) float64 {
	return a.Sub(b).Len()
}

// FromAngle 由角度（弧度）与长度构造向量
func FromAngle(rad, length float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{X: c * length, Y: s * length}
}

// MoveTowards 从 from 向 to 移动至多 maxDelta 的距离，不越过目标
func MoveTowards(from, to Vec2, maxDelta float64) Vec2 {
	d := to.Sub(from)
	l := d.Len()
	if l <= maxDelta || l == 0 {
		return to
	}
	return from.Add(d.Scale(maxDelta / l))
}
