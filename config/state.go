package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"taskdeck/log"
)

// State holds persistent UI state that survives restarts but is not
// user-edited configuration.
type State struct {
	// HelpScreenSeen is set once the user has dismissed the help overlay.
	HelpScreenSeen bool `json:"help_screen_seen"`
	// LastProject is the project that was selected when the app last quit.
	LastProject string `json:"last_project,omitempty"`
}

// LoadState reads state.json, returning a zero state when the file does not
// exist or cannot be parsed.
func LoadState() *State {
	configDir, err := GetConfigDir()
	if err != nil {
		log.WarningLog.Printf("failed to get config directory: %v", err)
		return &State{}
	}

	statePath := filepath.Join(configDir, StateFileName)
	data, err := os.ReadFile(statePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WarningLog.Printf("failed to read state file: %v", err)
		}
		return &State{}
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		log.WarningLog.Printf("failed to parse state file: %v", err)
		return &State{}
	}
	return &state
}

// Save writes the state back to disk.
func (s *State) Save() error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(configDir, StateFileName), data, 0o644)
}

// SetHelpScreenSeen records the help overlay as seen and persists it.
func (s *State) SetHelpScreenSeen() {
	s.HelpScreenSeen = true
	if err := s.Save(); err != nil {
		log.WarningLog.Printf("failed to save state: %v", err)
	}
}

// SetLastProject records the active project and persists it.
func (s *State) SetLastProject(projectID string) {
	if s.LastProject == projectID {
		return
	}
	s.LastProject = projectID
	if err := s.Save(); err != nil {
		log.WarningLog.Printf("failed to save state: %v", err)
	}
}
