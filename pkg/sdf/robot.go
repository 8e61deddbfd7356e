// Package sdf holds the in-memory robot description: a robot made of links
// connected by joints, with inertial, visual and collision data per link.
//
// The model is built once by extraction and only read afterwards. It is not
// safe for concurrent mutation.
package sdf

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateLink  = errors.New("duplicate link name")
	ErrDuplicateJoint = errors.New("duplicate joint name")
	ErrEmptyName      = errors.New("empty name")
)

// Robot is the root of a robot description.
type Robot struct {
	Name   string
	Pose   Pose
	Links  []*Link
	Joints []*Joint
}

// NewRobot returns an empty robot at the identity pose.
func NewRobot(name string) *Robot {
	return &Robot{Name: name, Pose: IdentityPose()}
}

// AddLink appends l. Link names must be unique within the robot.
func (r *Robot) AddLink(l *Link) error {
	if l.Name == "" {
		return fmt.Errorf("add link: %w", ErrEmptyName)
	}
	if r.Link(l.Name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateLink, l.Name)
	}
	r.Links = append(r.Links, l)
	return nil
}

// AddJoint appends j. Joint names must be unique within the robot.
func (r *Robot) AddJoint(j *Joint) error {
	if j.Name == "" {
		return fmt.Errorf("add joint: %w", ErrEmptyName)
	}
	if r.Joint(j.Name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateJoint, j.Name)
	}
	r.Joints = append(r.Joints, j)
	return nil
}

// Link returns the link called name, or nil.
func (r *Robot) Link(name string) *Link {
	for _, l := range r.Links {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Joint returns the joint called name, or nil.
func (r *Robot) Joint(name string) *Joint {
	for _, j := range r.Joints {
		if j.Name == name {
			return j
		}
	}
	return nil
}

// Clone returns a deep copy of r. Joints in the copy reference the copied links
// of the same name; a joint whose link is not part of r keeps a nil reference.
func (r *Robot) Clone() *Robot {
	c := &Robot{Name: r.Name, Pose: r.Pose}

	byName := make(map[string]*Link, len(r.Links))
	if len(r.Links) > 0 {
		c.Links = make([]*Link, len(r.Links))
		for i, l := range r.Links {
			c.Links[i] = l.Clone()
			byName[l.Name] = c.Links[i]
		}
	}

	if len(r.Joints) > 0 {
		c.Joints = make([]*Joint, len(r.Joints))
		for i, j := range r.Joints {
			cj := j.Clone()
			cj.Parent = relink(j.Parent, byName)
			cj.Child = relink(j.Child, byName)
			c.Joints[i] = cj
		}
	}
	return c
}

func relink(l *Link, byName map[string]*Link) *Link {
	if l == nil {
		return nil
	}
	return byName[l.Name]
}
