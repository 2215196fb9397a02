package store

import (
	"fmt"

	"github.com/google/uuid"
)

type templateGesture struct {
	name        string
	binding     string
	description string
}

type templateProfile struct {
	name        string
	description string
	gestures    []templateGesture
}

// templateProfiles are installed on first run. Template gestures carry
// a key binding and a description but no pattern: they stay inactive
// until the user records a pose for them, so they can never shadow or
// tie with the built-in gesture table.
var templateProfiles = []templateProfile{
	{
		name:        "Racing Game",
		description: "Profile for racing games with directional controls",
		gestures: []templateGesture{
			{"accelerate", "up", "Accelerate"},
			{"brake", "down", "Brake/Reverse"},
			{"turn_left", "left", "Turn Left"},
			{"turn_right", "right", "Turn Right"},
			{"nitro", "space", "Nitro Boost"},
			{"horn", "h", "Horn"},
		},
	},
	{
		name:        "Video Player",
		description: "Profile for video player controls",
		gestures: []templateGesture{
			{"play_pause", "space", "Play/Pause"},
			{"volume_up", "up", "Volume Up"},
			{"volume_down", "down", "Volume Down"},
			{"seek_forward", "right", "Seek Forward"},
			{"seek_backward", "left", "Seek Backward"},
			{"fullscreen", "f", "Toggle Fullscreen"},
		},
	},
	{
		name:        "General Gaming",
		description: "General gaming profile with common controls",
		gestures: []templateGesture{
			{"jump", "space", "Jump"},
			{"move_forward", "w", "Move Forward"},
			{"move_backward", "s", "Move Backward"},
			{"move_left", "a", "Move Left"},
			{"move_right", "d", "Move Right"},
			{"action", "e", "Action/Interact"},
		},
	},
}

// Seed installs the template profiles into an empty database and makes
// "General Gaming" the current profile. A database that already
// contains profiles is left untouched.
func (s *Store) Seed() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	profiles := s.Profiles()
	gestures := s.Gestures()

	var currentID string
	for _, tp := range templateProfiles {
		p := &Profile{ID: uuid.New().String(), Name: tp.name, Description: tp.description}
		if err := profiles.Create(p); err != nil {
			return fmt.Errorf("seed profile %s: %w", tp.name, err)
		}
		if tp.name == "General Gaming" {
			currentID = p.ID
		}

		for i, tg := range tp.gestures {
			g := &Gesture{
				ID:          uuid.New().String(),
				ProfileID:   p.ID,
				Name:        tg.name,
				Pattern:     []int{},
				HandType:    HandTypeSingle,
				Description: tg.description,
				KeyBinding:  tg.binding,
				Active:      false,
				Position:    i + 1,
			}
			if err := gestures.Create(g); err != nil {
				return fmt.Errorf("seed gesture %s/%s: %w", tp.name, tg.name, err)
			}
		}
	}

	return s.Settings().Set(SettingCurrentProfile, currentID)
}
