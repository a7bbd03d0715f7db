/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package games lists the games a host can start and the payload kinds
// each one puts on the wire. The relay never interprets these payloads;
// the catalog exists so hosts can discover games and so the relay can
// flag payloads nobody is expected to send.
package games

import "slices"

type Game struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	MinPlayers  int      `json:"minPlayers"`
	Kinds       []string `json:"kinds"`
}

var catalog = []Game{
	{
		Name:        "quiz",
		Title:       "Quiz",
		Description: "Answer multiple choice questions from your phone. Fastest correct answer scores most.",
		MinPlayers:  1,
		Kinds: []string{
			"quiz-init",
			"quiz-question-start",
			"quiz-question-end",
			"quiz-final",
		},
	},
	{
		Name:        "drawing",
		Title:       "Drawing",
		Description: "One player draws a word on their phone, everyone else guesses.",
		MinPlayers:  2,
		Kinds: []string{
			"drawing-init",
			"drawing-round-start",
			"drawing-correct-guess",
			"drawing-round-end",
			"drawing-next-round",
			"drawing-game-end",
		},
	},
	{
		Name:        "platformer",
		Title:       "Platformer",
		Description: "Race to the flag using your phone as a controller.",
		MinPlayers:  1,
		Kinds: []string{
			"platformer-init",
			"platformer-start",
			"platformer-update",
			"platformer-player-finished",
			"platformer-end",
		},
	},
}

// All returns a copy of the catalog.
func All() []Game {
	out := make([]Game, len(catalog))
	for i, g := range catalog {
		g.Kinds = slices.Clone(g.Kinds)
		out[i] = g
	}

	return out
}

func Lookup(name string) (Game, bool) {
	for _, g := range All() {
		if g.Name == name {
			return g, true
		}
	}

	return Game{}, false
}

// KnownKind reports whether any catalogued game emits kind.
func KnownKind(kind string) bool {
	for _, g := range catalog {
		if slices.Contains(g.Kinds, kind) {
			return true
		}
	}

	return false
}
