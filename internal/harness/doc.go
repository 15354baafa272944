// Package harness plays scripted cricket matches through the scoring
// engine and checks the state they leave behind.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: chase_by_wickets
//	description: "The side batting second passes the target"
//	matches:
//	  - team1: { id: 1, name: Lions }
//	    team2: { id: 2, name: Tigers }
//	    overs: 2
//	    toss: { winner: 1, decision: bat }
//	    innings:
//	      - batters: [101, 102, 103]
//	        bowlers: [210, 211]
//	        balls:
//	          - "1 1 4 . wd W:bowled 2"
//	          - "6 1 1 1 1 1"
//	      - batters: [201, 202, 203]
//	        bowlers: [110, 111]
//	        balls:
//	          - "4 6 W:caught:120 6 6"
//	assertions:
//	  - type: match
//	    expect: { status: completed, result: "Tigers won by 9 wickets" }
//	  - type: innings
//	    innings: 1
//	    expect: { runs: 20, wickets: 1, overs: "2.0" }
//
// Each innings names its batting order and bowlers. The harness works out
// the over and ball, rotates the strike on odd runs and at the end of each
// over, sends in the next batter after a wicket and rotates the bowlers by
// over. See Ball for the notation.
//
// # Assertion Types
//
//   - match, innings, performance, partnership: subset match against the
//     JSON form of the final scorecard
//   - career: subset match against a player's career statistics
//   - event_count, event_order: the published match events
//   - rejections: deliveries written with "!CODE" that were refused
//   - replay: the match rebuilds from its ledger without differences
//
// # Deterministic Testing
//
// Every scenario runs against a fresh in-memory SQLite store with a
// deterministic wall clock (testutil.DeterministicClock) and a fixed flow
// token (testutil.FixedFlowGenerator), so the snapshot compared against
// testdata/golden is byte-identical across runs.
package harness
