// Package game runs one screenshot -> model -> actions cycle for a configured game.
package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"multimodal-gamer/action"
)

var ErrUnknownGame = errors.New("unknown game")

// Profile describes how to ask the model about one game and how to
// post-process its answer.
type Profile struct {
	Name         string
	SystemPrompt string
	UserPrompt   string
	Strategy     action.Strategy
}

const defaultUserPrompt = "See the screenshot of the game provide your next action. Only respond with the next action in valid json."

var profiles = map[string]Profile{
	"sm64": {
		Name: "sm64",
		SystemPrompt: `You are playing Super Mario 64 on an emulator. You see one screenshot per turn.
Reply with a JSON array of actions. Each action is an object:
{"operation": "press", "keys": ["<key>"], "duration": <seconds>}
Keys: "up", "down", "left", "right" move Mario, "x" jumps, "c" punches, "z" crouches.
Keep every batch short; you will see the result before your next move.`,
		UserPrompt: defaultUserPrompt,
		Strategy:   action.StrategyNone,
	},
	"poker": {
		Name: "poker",
		SystemPrompt: `You are playing online Texas Hold'em. You see one screenshot per turn.
Reply with a JSON array of actions. Each action clicks a button by its visible label:
{"operation": "click", "text": "<exact button text>"}
Only use labels you can read on the screen, for example "Fold", "Check", "Call" or "Raise".`,
		UserPrompt: defaultUserPrompt,
		Strategy:   action.StrategyOCRResolve,
	},
}

// LookupProfile returns the built-in profile for name.
func LookupProfile(name string) (Profile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownGame, name, strings.Join(Names(), ", "))
	}
	return p, nil
}

// Names lists the built-in profiles.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
