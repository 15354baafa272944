package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateNewMatch(t *testing.T) {
	ok := NewMatch{Team1: TeamRef{ID: 1}, Team2: TeamRef{ID: 2}, TotalOvers: 20}
	require.NoError(t, ValidateNewMatch(ok))

	tests := []struct {
		name string
		edit func(*NewMatch)
	}{
		{"same team", func(m *NewMatch) { m.Team2.ID = 1 }},
		{"zero team", func(m *NewMatch) { m.Team1.ID = 0 }},
		{"no overs", func(m *NewMatch) { m.TotalOvers = 0 }},
		{"too many overs", func(m *NewMatch) { m.TotalOvers = 51 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ok
			tt.edit(&m)
			assert.True(t, IsValidation(ValidateNewMatch(m)))
		})
	}
}

func TestValidateInput(t *testing.T) {
	base := DeliveryInput{
		Innings: 1, OverNumber: 0, BallNumber: 1,
		BatsmanID: 101, NonStrikerID: 102, BowlerID: 210,
		ExtrasType: ExtrasNone, DismissalType: DismissalNone,
	}
	require.NoError(t, ValidateInput(1, base))

	tests := []struct {
		name  string
		edit  func(*DeliveryInput)
		field string
	}{
		{"innings 3", func(d *DeliveryInput) { d.Innings = 3 }, "innings"},
		{"ball 7", func(d *DeliveryInput) { d.BallNumber = 7 }, "ball_number"},
		{"runs 7", func(d *DeliveryInput) { d.RunsScored = 7 }, "runs_scored"},
		{"extras 6", func(d *DeliveryInput) { d.ExtrasType = ExtrasWide; d.Extras = 6 }, "extras"},
		{"same batters", func(d *DeliveryInput) { d.NonStrikerID = 101 }, "non_striker_id"},
		{"bowler batting", func(d *DeliveryInput) { d.BowlerID = 102 }, "bowler_id"},
		{"missing bowler", func(d *DeliveryInput) { d.BowlerID = 0 }, "batsman_id"},
		{"unknown extras", func(d *DeliveryInput) { d.ExtrasType = "penalty" }, "extras_type"},
		{"extras without type", func(d *DeliveryInput) { d.Extras = 1 }, "extras"},
		{"wide without penalty", func(d *DeliveryInput) { d.ExtrasType = ExtrasWide }, "extras"},
		{"runs off a wide", func(d *DeliveryInput) { d.ExtrasType = ExtrasWide; d.Extras = 1; d.RunsScored = 1 }, "runs_scored"},
		{"runs off a bye", func(d *DeliveryInput) { d.ExtrasType = ExtrasBye; d.Extras = 1; d.RunsScored = 2 }, "runs_scored"},
		{"incoming already batting", func(d *DeliveryInput) {
			d.IsWicket, d.DismissalType, d.PlayerOutID, d.IncomingBatsmanID = true, DismissalBowled, 101, 102
		}, "incoming_batsman_id"},
		{"player out without wicket", func(d *DeliveryInput) { d.PlayerOutID = 101 }, "player_out_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.edit(&d)
			err := ValidateInput(1, d)
			require.Error(t, err)
			var se *Error
			require.ErrorAs(t, err, &se)
			assert.Equal(t, ErrCodeValidation, se.Code)
			assert.Equal(t, tt.field, se.Details["field"])
		})
	}
}

func TestDeliveryInput_Normalized(t *testing.T) {
	d := DeliveryInput{BatsmanID: 101, IsWicket: true, DismissalType: DismissalBowled}.Normalized()
	assert.Equal(t, ExtrasNone, d.ExtrasType)
	assert.Equal(t, int64(101), d.PlayerOutID, "player out defaults to the striker")
}
