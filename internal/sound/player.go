package sound

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
)

// ErrNoPlayer indicates no supported audio command was found on this system.
var ErrNoPlayer = errors.New("no supported audio player found")

// player describes an OS-native command that can play an audio file.
type player struct {
	name string
	// args builds the command line for file at speed. Players that cannot
	// change speed ignore it.
	args func(file string, speed float64) []string
	// formats limits the containers the player accepts; nil means any.
	formats map[Format]bool
}

func rate(speed float64) string {
	return strconv.FormatFloat(speed, 'f', 3, 64)
}

var (
	afplay = player{
		name: "afplay",
		args: func(file string, speed float64) []string { return []string{"-r", rate(speed), file} },
	}
	ffplay = player{
		name: "ffplay",
		args: func(file string, speed float64) []string {
			return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-af", "atempo=" + rate(speed), file}
		},
	}
	sox = player{
		name: "play",
		args: func(file string, speed float64) []string { return []string{"-q", file, "speed", rate(speed)} },
	}
	paplay = player{
		name: "paplay",
		args: func(file string, _ float64) []string { return []string{file} },
		formats: map[Format]bool{
			FormatWAV: true, FormatOGG: true, FormatFLAC: true,
		},
	}
	aplay = player{
		name:    "aplay",
		args:    func(file string, _ float64) []string { return []string{"-q", file} },
		formats: map[Format]bool{FormatWAV: true},
	}
)

// defaultPlayers returns the priority-ordered players to look for on goos.
// Speed-capable players come first.
func defaultPlayers(goos string) []player {
	switch goos {
	case "darwin":
		return []player{afplay, ffplay, sox}
	default:
		return []player{ffplay, sox, paplay, aplay}
	}
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// findPlayer resolves the player to use. A non-empty override names a player
// (by command name or path) and must be one of the known players.
func findPlayer(override string) (player, string, error) {
	candidates := defaultPlayers(runtime.GOOS)

	if override != "" {
		base := filepath.Base(override)
		for _, p := range []player{afplay, ffplay, sox, paplay, aplay} {
			if p.name != base {
				continue
			}
			path, err := lookPath(override)
			if err != nil {
				return player{}, "", fmt.Errorf("audio player %q: %w", override, err)
			}
			return p, path, nil
		}
		return player{}, "", fmt.Errorf("audio player %q is not supported", override)
	}

	for _, p := range candidates {
		if path, err := lookPath(p.name); err == nil {
			return p, path, nil
		}
	}
	return player{}, "", ErrNoPlayer
}

func (p player) supports(f Format) bool {
	return p.formats == nil || p.formats[f]
}
