// Package scene implements the gated playback units of a scene: Lines,
// Conditions, and the Sections whose activation is decided from history.
//
// A Section holds an ordered queue of Lines and a list of Conditions. The
// first call to IsActive evaluates every Condition against the scene log and
// the event log and freezes the result for the Section's lifetime. An empty
// Section is never active, which lets callers drive playback with
//
//	for {
//		active, err := section.IsActive()
//		if err != nil || !active {
//			break
//		}
//		if err := section.ReadLine(w, events); err != nil {
//			break
//		}
//	}
//
// Conditions are matched against two predicate families:
//
// Unary predicates take one event string ("name,result") and inspect the
// event log: expectEqual, expectNotEqual, expectLower, expectLowerOrEqual,
// expectHigher, expectHigherOrEqual.
//
// Binary predicates take a scene name and an event string and compare the
// latest time the event fired with the latest visit to the scene:
// triggeredSinceLatestSceneCall, notTriggeredSinceLatestSceneCall,
// triggeredBeforeLatestSceneCall, notTriggeredBeforeLatestSceneCall.
//
// A Condition with an unknown name fails the check with a NOT_FOUND
// ConditionError; one with the wrong argument count fails with
// INVALID_ARGUMENT.
package scene
