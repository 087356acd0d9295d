package toxinswarm

// collide scans every pair of particles, applies the rebound to the
// overlapping ones and returns one new marker per colliding pair.
// All pairs are tested every tick.
func (s *Simulation) collide() []Marker {
	var spawned []Marker
	var normals []Vec2
	if s.Env.Rebound == ReboundAccumulate {
		normals = make([]Vec2, len(s.Swarm))
	}

	s.Collisions = 0
	for i := range s.Swarm {
		p := &s.Swarm[i]
		for j := i + 1; j < len(s.Swarm); j++ {
			q := &s.Swarm[j]
			if Dist(p.Pos, q.Pos) >= p.Size+q.Size {
				continue
			}
			s.Collisions++

			switch s.Env.Rebound {
			case ReboundAccumulate:
				// contact normal from q to p, zero if centers coincide
				n := p.Pos.Sub(q.Pos)
				if d := n.Norm(); d > 0 {
					n = n.Scale(1 / d)
				}
				normals[i] = normals[i].Add(n)
				normals[j] = normals[j].Sub(n)
			default:
				p.Vel = p.Vel.Neg()
				q.Vel = q.Vel.Neg()
			}

			spawned = append(spawned, Marker{
				Pos:       Midpoint(p.Pos, q.Pos),
				Remaining: s.Env.MarkerLifetime,
				Lifetime:  s.Env.MarkerLifetime,
			})
		}
	}

	for i, n := range normals {
		d := n.Norm()
		if d == 0 {
			continue
		}
		n = n.Scale(1 / d)
		// only turn particles still moving into their neighbors
		if v := s.Swarm[i].Vel; v.Dot(n) < 0 {
			s.Swarm[i].Vel = Reflect(v, n)
		}
	}
	return spawned
}
