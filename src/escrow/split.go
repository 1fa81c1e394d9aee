package escrow

import (
	"fmt"
	"math/bits"
)

func checkShares(consumerShare, providerShare uint8) error {
	// Summed as int so that e.g. 200+156 doesn't wrap around to 100
	if int(consumerShare)+int(providerShare) != 100 {
		return fmt.Errorf("%w: %d + %d", ErrInvalidShares, consumerShare, providerShare)
	}
	return nil
}

// Consumer gets floor(amount * share / 100), the provider gets the rest.
// Share has to be at most 100.
func split(amount uint64, consumerShare uint8) (consumerAmount, providerAmount uint64) {
	hi, lo := bits.Mul64(amount, uint64(consumerShare))
	consumerAmount, _ = bits.Div64(hi, lo, 100)
	providerAmount = amount - consumerAmount
	return
}
