/*
 * Copyright 2025 Winnow Labs, Inc. and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package randvar

import (
	"sync"

	"golang.org/x/exp/rand"
)

// Deck is a random number generator that generates numbers in the range
// [0,len(weights)-1] where the probability of i is
// weights(i)/sum(weights). Unlike Weighted, the weights are specified as
// integers and used in a deck-of-cards style random number selection which
// ensures that each element is returned with a desired frequency within the
// size of the deck.
type Deck struct {
	rng *rand.Rand
	mu  struct {
		sync.Mutex
		index int
		deck  []int
	}
}

// NewDeck returns a new deck random number generator.
func NewDeck(rng *rand.Rand, weights ...int) *Deck {
	var sum int
	for i := range weights {
		sum += weights[i]
	}
	deck := make([]int, 0, sum)
	for i := range weights {
		for j := 0; j < weights[i]; j++ {
			deck = append(deck, i)
		}
	}
	return newDeck(rng, deck)
}

// NewUnitDeck returns a deck over [0,n-1] with every element carrying weight
// one. A full pass over the deck visits each element exactly once, so n draws
// yield a random permutation of [0,n-1].
func NewUnitDeck(rng *rand.Rand, n int) *Deck {
	deck := make([]int, n)
	for i := range deck {
		deck[i] = i
	}
	return newDeck(rng, deck)
}

func newDeck(rng *rand.Rand, deck []int) *Deck {
	d := &Deck{
		rng: ensureRand(rng),
	}
	d.mu.index = len(deck)
	d.mu.deck = deck
	return d
}

// Int returns a random number in the range [0,len(weights)-1] where the
// probability of i is weights(i)/sum(weights). The deck is reshuffled once
// all cards have been dealt.
func (d *Deck) Int() int {
	d.mu.Lock()
	if d.mu.index == len(d.mu.deck) {
		d.rng.Shuffle(len(d.mu.deck), func(i, j int) {
			d.mu.deck[i], d.mu.deck[j] = d.mu.deck[j], d.mu.deck[i]
		})
		d.mu.index = 0
	}
	result := d.mu.deck[d.mu.index]
	d.mu.index++
	d.mu.Unlock()
	return result
}
