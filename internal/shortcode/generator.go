// Package shortcode derives short codes for original URLs.
package shortcode

import (
	"crypto/sha256"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the compact alphabet short codes are drawn from.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	// StrategyDigest derives codes from a truncated SHA-256 digest of the
	// URL, so shortening the same URL twice yields the same candidate.
	StrategyDigest = "digest"
	// StrategyRandom draws codes at random from the alphabet.
	StrategyRandom = "random"
)

// maxDigestLength is the number of digest bytes available for truncation.
const maxDigestLength = sha256.Size

// Generator produces fixed-length short code candidates. It is stateless;
// collision handling is driven by the caller via the attempt counter.
type Generator struct {
	length   int
	strategy string
}

func New(length int, strategy string) (*Generator, error) {
	const op = "shortcode.New"

	if length < 1 || length > maxDigestLength {
		return nil, fmt.Errorf("%s: length must be between 1 and %d", op, maxDigestLength)
	}

	switch strategy {
	case StrategyDigest, StrategyRandom:
	default:
		return nil, fmt.Errorf("%s: unknown strategy: %q", op, strategy)
	}

	return &Generator{
		length:   length,
		strategy: strategy,
	}, nil
}

// Generate returns a candidate code for the original URL. With the digest
// strategy attempt 0 is the plain truncated digest; attempts above 0 salt
// the digest input with the attempt counter to sidestep collisions. The
// truncated digest is far smaller than the full hash, so collisions are a
// normal outcome the caller must handle, not a rarity it can ignore.
func (g *Generator) Generate(originalURL string, attempt int) (string, error) {
	const op = "shortcode.Generator.Generate"

	if g.strategy == StrategyRandom {
		code, err := gonanoid.Generate(Alphabet, g.length)
		if err != nil {
			return "", fmt.Errorf("%s: failed to generate random code: %w", op, err)
		}

		return code, nil
	}

	input := originalURL
	if attempt > 0 {
		input = fmt.Sprintf("%s#%d", originalURL, attempt)
	}

	sum := sha256.Sum256([]byte(input))

	buf := make([]byte, g.length)
	for i := range buf {
		buf[i] = Alphabet[int(sum[i])%len(Alphabet)]
	}

	return string(buf), nil
}
