// Package enigma implements a three-rotor reciprocal substitution cipher.
//
// A Machine composes a Plugboard, three Rotors (left, middle, right) and a
// Reflector. Every processed character first advances the rotors, then
// travels through the pipeline:
//
//	plugboard >>
//	    right rotor >> middle rotor >> left rotor >>
//	        reflector >>
//	    left rotor >> middle rotor >> right rotor >>
//	plugboard
//
// Because the reflector is an involution without fixed points and every
// rotor's backward pass inverts its forward pass, the machine is its own
// inverse: running a ciphertext through a freshly built Machine with the same
// configuration restores the plaintext.
//
// # Stepping
//
// Stepping is evaluated right to left before each substitution:
//
//   - the right rotor steps when its notch index differs from the middle
//     rotor's notch index;
//   - the middle rotor then steps when its notch index differs from the
//     left rotor's notch index;
//   - the left rotor always steps.
//
// A notch index is the position of the rotor's notch letter in its current
// (rotated) wiring. This is not the historical double-stepping rule.
//
// # State
//
// A Machine mutates its rotors on every character, blanks included, and is
// not safe for concurrent use. Build one Machine per cipher stream; Machines
// built from the same Config share nothing.
//
// This is a teaching cipher. It offers no security.
package enigma
