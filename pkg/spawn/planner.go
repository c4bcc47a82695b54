// Package spawn 计算敌人的生成位置
//
// 生成点位于以玩家为圆心的环形区域内，并保证落在摄像机可视范围之外，
// 避免敌人在画面中凭空出现。
package spawn

import (
	"math"
	"math/rand"

	"github.com/gonewx/hordewave/pkg/utils"
)

// pushEpsilon 推出摄像机边界时额外留出的距离
const pushEpsilon = 1e-3

// Planner 生成位置规划器
type Planner struct {
	rng *rand.Rand
}

// NewPlanner 创建规划器
// rng 为 nil 时使用固定种子 1
func NewPlanner(rng *rand.Rand) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Planner{rng: rng}
}

// GetSpawnPosition 在玩家周围 [minDist, maxDist] 的环形区域内随机取一点
//
// 角度 ~ U(0, 2π)，距离 ~ U(minDist, maxDist)。
// minDist > maxDist 时两者交换。
func (p *Planner) GetSpawnPosition(playerPos utils.Vec2, minDist, maxDist float64) utils.Vec2 {
	if minDist > maxDist {
		minDist, maxDist = maxDist, minDist
	}
	angle := p.rng.Float64() * 2 * math.Pi
	distance := minDist + p.rng.Float64()*(maxDist-minDist)
	return playerPos.Add(utils.FromAngle(angle, distance))
}

// EnsureOutsideCamera 把落在摄像机范围（向外扩张 edgeOffset）内的点沿径向推出
//
// 推出方向为摄像机中心指向该点的方向，推出后的距离取
// max(halfWidth, halfHeight) + edgeOffset 与扩张矩形出口距离中的较大者，
// 保证结果一定不在扩张矩形内部。点与中心重合时沿 +X 方向推出。
// 已在范围外的点原样返回。
func EnsureOutsideCamera(pos utils.Vec2, camera utils.Rect, edgeOffset float64) utils.Vec2 {
	expanded := camera.Expand(edgeOffset)
	if !expanded.ContainsStrict(pos) {
		return pos
	}

	dir := pos.Sub(camera.Center).Normalize()
	if dir.IsZero() {
		dir = utils.V(1, 0)
	}

	distance := math.Max(camera.HalfW, camera.HalfH) + edgeOffset
	if exit := expanded.ExitDistance(dir) + pushEpsilon; exit > distance {
		distance = exit
	}
	return camera.Center.Add(dir.Scale(distance))
}

// Plan 取环形随机点并保证在摄像机范围外
func (p *Planner) Plan(playerPos utils.Vec2, minDist, maxDist float64, camera utils.Rect, edgeOffset float64) utils.Vec2 {
	return EnsureOutsideCamera(p.GetSpawnPosition(playerPos, minDist, maxDist), camera, edgeOffset)
}

// Around 在 center 周围半径 radius 的圆内均匀取一点（Boss 召唤小怪用）
func (p *Planner) Around(center utils.Vec2, radius float64) utils.Vec2 {
	angle := p.rng.Float64() * 2 * math.Pi
	r := radius * math.Sqrt(p.rng.Float64())
	return center.Add(utils.FromAngle(angle, r))
}
