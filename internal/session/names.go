package session

import (
	"fmt"
	"math/rand"
	"time"
)

func generateName() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("%s-%s-%d", adjectives[r.Intn(len(adjectives))], nouns[r.Intn(len(nouns))], r.Intn(99))
}

var adjectives = []string{
	"calm",
	"keen",
	"prim",
	"tidy",
	"alert",
	"brisk",
	"civil",
	"exact",
	"quiet",
	"sharp",
	"stern",
	"still",
	"swift",
	"plain",
	"sober",
}

var nouns = []string{
	"desk",
	"hall",
	"bell",
	"gate",
	"row",
	"seat",
	"booth",
	"clock",
	"board",
	"aisle",
	"badge",
	"sheet",
	"stand",
	"panel",
	"door",
}
