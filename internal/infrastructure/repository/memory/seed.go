package memory

import (
	"github.com/draft-league/draftroom/internal/domain/player"
)

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "gk-01", Name: "Alisson Becker", Position: player.PositionGoalkeeper, Team: "Liverpool"},
		{ID: "gk-02", Name: "David Raya", Position: player.PositionGoalkeeper, Team: "Arsenal"},
		{ID: "gk-03", Name: "Ederson Moraes", Position: player.PositionGoalkeeper, Team: "Manchester City"},
		{ID: "def-01", Name: "Virgil van Dijk", Position: player.PositionDefender, Team: "Liverpool"},
		{ID: "def-02", Name: "William Saliba", Position: player.PositionDefender, Team: "Arsenal"},
		{ID: "def-03", Name: "Ruben Dias", Position: player.PositionDefender, Team: "Manchester City"},
		{ID: "def-04", Name: "Gabriel Magalhaes", Position: player.PositionDefender, Team: "Arsenal"},
		{ID: "def-05", Name: "Trent Alexander-Arnold", Position: player.PositionDefender, Team: "Liverpool"},
		{ID: "def-06", Name: "Josko Gvardiol", Position: player.PositionDefender, Team: "Manchester City"},
		{ID: "mid-01", Name: "Martin Odegaard", Position: player.PositionMidfielder, Team: "Arsenal"},
		{ID: "mid-02", Name: "Rodri Hernandez", Position: player.PositionMidfielder, Team: "Manchester City"},
		{ID: "mid-03", Name: "Dominik Szoboszlai", Position: player.PositionMidfielder, Team: "Liverpool"},
		{ID: "mid-04", Name: "Declan Rice", Position: player.PositionMidfielder, Team: "Arsenal"},
		{ID: "mid-05", Name: "Phil Foden", Position: player.PositionMidfielder, Team: "Manchester City"},
		{ID: "mid-06", Name: "Alexis Mac Allister", Position: player.PositionMidfielder, Team: "Liverpool"},
		{ID: "fwd-01", Name: "Erling Haaland", Position: player.PositionForward, Team: "Manchester City"},
		{ID: "fwd-02", Name: "Mohamed Salah", Position: player.PositionForward, Team: "Liverpool"},
		{ID: "fwd-03", Name: "Bukayo Saka", Position: player.PositionForward, Team: "Arsenal"},
		{ID: "fwd-04", Name: "Gabriel Jesus", Position: player.PositionForward, Team: "Arsenal"},
		{ID: "fwd-05", Name: "Luis Diaz", Position: player.PositionForward, Team: "Liverpool"},
	}
}
