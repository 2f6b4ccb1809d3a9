// Package engine implements the pure game logic for bulls and cows:
// secret generation, guess validation, guess scoring, and the per-game
// state machine (Forming -> Full -> Finished).
//
// A secret is a 4-digit sequence with pairwise-distinct digits in 0-9.
// Scoring a guess against a secret yields bulls (right digit, right
// position) and cows (right digit, wrong position). A guess scoring 4
// bulls wins the game and finishes it permanently.
//
// The package has no locking and no I/O; concurrency control lives in
// game/registry, which owns all Game instances.
package engine
