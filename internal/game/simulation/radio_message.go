package simulation

import (
	"github.com/a-random-oracle/Fly-Hard-sub000/pkg/types"
)

type RadioMessage struct {
	// Time is the simulation time in seconds.
	Time     float64
	Callsign types.AircraftID
	Message  string
	IsUrgent bool
}

func (s *Simulation) AddRadioMessage(callsign types.AircraftID, message string, isUrgent bool) {
	msg := RadioMessage{
		Time:     s.GameTimeSeconds,
		Callsign: callsign,
		Message:  message,
		IsUrgent: isUrgent,
	}
	s.RadioLog = append(s.RadioLog, msg)

	if len(s.RadioLog) > s.maxRadioLogSize {
		s.RadioLog = s.RadioLog[len(s.RadioLog)-s.maxRadioLogSize:]
	}
}
