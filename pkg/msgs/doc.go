// Package msgs provides the motion protocol and all message schemas.
package msgs

// The motion protocol runs between a robot running maneuvers and the
// stations driving or watching it. Commands flow to the robot and are
// answered by replies carrying the same sequence, events flow out.
//
// Producer: robot (events, replies)
// Consumer: motionctl, motionmon, dashboards
