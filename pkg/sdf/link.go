package sdf

// Link is a rigid body of the robot.
//
// ParentName names the link this one hangs from. It is a naming reference
// filled in once joints are known, not ownership.
type Link struct {
	Name           string
	ParentName     string
	Pose           *Pose
	Inertial       *Inertial
	Visual         *Visual
	Collision      *Collision
	CollisionGroup []Collision
}

// NewLink returns an empty link.
func NewLink(name string) *Link {
	return &Link{Name: name}
}

// Clone returns a deep copy of l.
func (l *Link) Clone() *Link {
	if l == nil {
		return nil
	}
	c := &Link{
		Name:       l.Name,
		ParentName: l.ParentName,
		Inertial:   l.Inertial.Clone(),
		Visual:     l.Visual.Clone(),
		Collision:  l.Collision.Clone(),
	}
	if l.Pose != nil {
		p := *l.Pose
		c.Pose = &p
	}
	if l.CollisionGroup != nil {
		c.CollisionGroup = make([]Collision, len(l.CollisionGroup))
		copy(c.CollisionGroup, l.CollisionGroup)
	}
	return c
}
