// Package harness runs scene scenarios: YAML files that seed the history
// logs, optionally play scenes, and check which conditions hold afterwards.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	scenes: scenes            # optional, relative to the scenario file
//	start: Opening            # optional, defaults to reader.DefaultStartScene
//	events:                   # constant-result events registered before play
//	  Bell: 1
//	history:                  # entries logged before play, at line counts
//	  - at: 10
//	    scene: Hall
//	  - at: 10
//	    event: "Bell,1"
//	checks:
//	  - conditions:
//	      - name: expectEqual
//	        arguments: ["Bell,1"]
//	    expect: active        # active | inactive | invalid_argument | not_found
//	assertions:
//	  - type: event_count
//	    key: "Bell,1"
//	    count: 1
//
// # Assertion Types
//
//   - event_count: The event log holds key exactly Count times
//   - scene_count: The scene log holds key exactly Count times
//   - lines_read: Playback ended with Value lines read
//   - stop_reason: The last Read returned Reason
//   - transcript: Playback wrote exactly Lines, in order
//
// # Deterministic Testing
//
// Scenarios never sleep (line delay is zero) and seed history through a
// manual counter, so traces are identical across runs and can be compared
// against golden files.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/conditions.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
