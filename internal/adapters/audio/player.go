// Package audio plays the completion cues by shelling out to an external
// player (aplay by default). The cue mapping comes from config; an
// unconfigured cue is silently skipped.
package audio

import (
	"context"
	"fmt"
	"os/exec"
)

const defaultCommand = "aplay"

// Player implements ports.CuePlayer.
type Player struct {
	command string
	cues    map[string]string // cue name → sound file path
}

// NewPlayer creates a Player. command may be empty to use aplay; cues maps
// cue names to sound files and may be nil to disable audio entirely.
func NewPlayer(command string, cues map[string]string) *Player {
	if command == "" {
		command = defaultCommand
	}
	return &Player{command: command, cues: cues}
}

// PlayCue plays the configured sound for the cue, blocking until the player
// exits.
func (p *Player) PlayCue(ctx context.Context, name string) error {
	file := p.cues[name]
	if file == "" {
		return nil
	}
	if err := exec.CommandContext(ctx, p.command, file).Run(); err != nil {
		return fmt.Errorf("audio.PlayCue: %s %q: %w", p.command, file, err)
	}
	return nil
}
