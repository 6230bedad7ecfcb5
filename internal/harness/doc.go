// Package harness runs cipher conformance scenarios.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: hello_world
//	description: "Basic key enciphers a greeting"
//	key:
//	  plugboard: "IR:HQ:NT:WZ:VC:OY:GP:LF:BX:AK"
//	  left: {table: 1, position: 0}
//	  middle: {table: 2, position: 0}
//	  right: {table: 3, position: 0}
//	steps:
//	  - input: "HELLO WORLD"
//	    expect: "DPSJA SXLZW"
//	  - input: "bad!"
//	    error: FORMAT
//
// All steps run on one machine, so rotor state carries from step to step.
// A step with expect checks the output. A step with error checks the error
// code: FORMAT for bad input, or a configuration code such as ROTOR_REUSE
// when the key itself is invalid. A step with neither only records its trace.
//
// After the steps, a fresh machine deciphers the successful outputs in the
// same order and must restore the upper-cased inputs.
//
// # Golden Traces
//
// Snapshot renders a result as canonical JSON, so golden files are
// byte-stable. Use RunWithGolden in tests:
//
//	s, err := harness.LoadScenario("testdata/scenarios/hello.yaml")
//	require.NoError(t, err)
//	require.NoError(t, harness.RunWithGolden(t, s))
package harness
