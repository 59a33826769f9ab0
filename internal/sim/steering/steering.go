// Package steering provides the stateless vector-force primitives agents
// steer with. Every function returns a desired force; callers combine them
// through Blend, which is the only entry point the agent FSM uses directly.
package steering

// Seek returns a force toward target at full speed.
func Seek(pos, target Vec2, maxSpeed float64) Vec2 {
	return target.Sub(pos).Norm().Scale(maxSpeed)
}

// Flee is the inverse of Seek.
func Flee(pos, threat Vec2, maxSpeed float64) Vec2 {
	return pos.Sub(threat).Norm().Scale(maxSpeed)
}

// Arrive seeks the target but decelerates linearly inside slowRadius.
func Arrive(pos, target Vec2, maxSpeed, slowRadius float64) Vec2 {
	to := target.Sub(pos)
	d := to.Len()
	if d == 0 {
		return Vec2{}
	}
	speed := maxSpeed
	if slowRadius > 0 && d < slowRadius {
		speed = maxSpeed * d / slowRadius
	}
	return to.Norm().Scale(speed)
}

// Pursue seeks the target's predicted future position.
func Pursue(pos, target, targetVel Vec2, maxSpeed float64) Vec2 {
	lead := target.Dist(pos) / maxf(maxSpeed, 0.001)
	future := target.Add(targetVel.Scale(lead))
	return Seek(pos, future, maxSpeed)
}

// Evade flees the target's predicted future position.
func Evade(pos, target, targetVel Vec2, maxSpeed float64) Vec2 {
	lead := target.Dist(pos) / maxf(maxSpeed, 0.001)
	future := target.Add(targetVel.Scale(lead))
	return Flee(pos, future, maxSpeed)
}

// Separation repels from each neighbour closer than desired, weighted by
// inverse distance.
func Separation(pos Vec2, neighbours []Vec2, desired, maxSpeed float64) Vec2 {
	var sum Vec2
	n := 0
	for _, nb := range neighbours {
		d := pos.Dist(nb)
		if d <= 0 || d >= desired {
			continue
		}
		sum = sum.Add(pos.Sub(nb).Norm().Scale(1 / d))
		n++
	}
	if n == 0 {
		return Vec2{}
	}
	return sum.Scale(1 / float64(n)).Norm().Scale(maxSpeed)
}

// Cohesion seeks the centroid of the neighbours.
func Cohesion(pos Vec2, neighbours []Vec2, maxSpeed float64) Vec2 {
	if len(neighbours) == 0 {
		return Vec2{}
	}
	var c Vec2
	for _, nb := range neighbours {
		c = c.Add(nb)
	}
	c = c.Scale(1 / float64(len(neighbours)))
	return Seek(pos, c, maxSpeed)
}

// Alignment matches the average neighbour velocity.
func Alignment(neighbourVels []Vec2, maxSpeed float64) Vec2 {
	if len(neighbourVels) == 0 {
		return Vec2{}
	}
	var avg Vec2
	for _, v := range neighbourVels {
		avg = avg.Add(v)
	}
	avg = avg.Scale(1 / float64(len(neighbourVels)))
	return avg.Truncate(maxSpeed)
}

// FollowPath advances through waypoints, switching once within reach of the
// current one. Returns the force plus the (possibly advanced) waypoint index.
func FollowPath(pos Vec2, waypoints []Vec2, idx int, reach, maxSpeed float64) (Vec2, int) {
	if len(waypoints) == 0 {
		return Vec2{}, idx
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(waypoints) {
		idx = len(waypoints) - 1
	}
	if pos.Dist(waypoints[idx]) < reach && idx < len(waypoints)-1 {
		idx++
	}
	return Seek(pos, waypoints[idx], maxSpeed), idx
}

// AvoidObstacles repels from static points inside the avoid radius.
func AvoidObstacles(pos Vec2, obstacles []Vec2, radius, maxSpeed float64) Vec2 {
	var sum Vec2
	n := 0
	for _, o := range obstacles {
		d := pos.Dist(o)
		if d <= 0 || d >= radius {
			continue
		}
		sum = sum.Add(pos.Sub(o).Norm().Scale((radius - d) / radius))
		n++
	}
	if n == 0 {
		return Vec2{}
	}
	return sum.Norm().Scale(maxSpeed)
}

// Weighted pairs a force with its blend weight.
type Weighted struct {
	Force  Vec2
	Weight float64
}

// Blend sums the weighted forces and truncates the result to maxMagnitude.
func Blend(forces []Weighted, maxMagnitude float64) Vec2 {
	var sum Vec2
	for _, f := range forces {
		sum = sum.Add(f.Force.Scale(f.Weight))
	}
	return sum.Truncate(maxMagnitude)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
