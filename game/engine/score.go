package engine

// Evaluate scores guess against secret.
//
// A position with matching digits is a bull. For every non-bull position
// of the secret, the digit is a cow if it occurs anywhere in the guess at
// another index. The positional scan stays well-defined even if a caller
// bypasses validation and feeds repeated digits.
func Evaluate(secret Secret, guess Guess) Score {
	var score Score
	for i := 0; i < SecretLength; i++ {
		if secret[i] == guess[i] {
			score.Bulls++
			continue
		}
		for j := 0; j < SecretLength; j++ {
			if i != j && secret[i] == guess[j] {
				score.Cows++
				break
			}
		}
	}
	return score
}
