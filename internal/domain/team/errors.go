package team

import "errors"

// Team domain errors
var (
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamNameExists      = errors.New("team name already exists")
	ErrLeaderNotTeamLeader = errors.New("team leader must hold the TEAMLEADER role")
)
