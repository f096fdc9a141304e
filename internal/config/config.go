package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Dutrix96/batalla/internal/game"
)

type characterEntry struct {
	Name          string `json:"name"`
	MaxHP         int    `json:"max_hp"`
	Attack        int    `json:"attack"`
	RequiredLevel int    `json:"required_level"`
}

type rawConfig struct {
	CharacterList []characterEntry `json:"character_list"`
	Server        *struct {
		Address string `json:"address"`
	} `json:"server"`
	// Policy constants. The source design treats these as tunables rather
	// than hard invariants, so they live in the config file with defaults.
	WinnerXP                       *int `json:"winner_xp"`
	LoserXP                        *int `json:"loser_xp"`
	MachineSpecialThresholdPercent *int `json:"machine_special_threshold_percent"`
}

// LoadedConfig contains the character catalog to seed and gameplay policy.
type LoadedConfig struct {
	Characters    []game.Character
	ServerAddress string

	WinnerXP                       int
	LoserXP                        int
	MachineSpecialThresholdPercent int
}

const (
	defaultWinnerXP         = 20
	defaultLoserXP          = 10
	defaultMachineThreshold = 30
)

// LoadConfig reads the configuration file at path. It requires a non-empty
// `character_list` (snake_case keys) and validates name uniqueness and stat
// sanity before handing the catalog to the seeder.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.CharacterList) == 0 {
		return nil, fmt.Errorf("config file %s: character_list is empty (provide 'character_list' array)", path)
	}

	out := make([]game.Character, 0, len(rc.CharacterList))
	nameSet := make(map[string]struct{}, len(rc.CharacterList))
	for _, c := range rc.CharacterList {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("config file %s: character entry missing 'name'", path)
		}
		if c.MaxHP <= 0 || c.Attack <= 0 {
			return nil, fmt.Errorf("config file %s: character '%s' needs positive max_hp and attack", path, c.Name)
		}
		if c.RequiredLevel < 1 {
			return nil, fmt.Errorf("config file %s: character '%s' needs required_level >= 1", path, c.Name)
		}
		ln := strings.ToLower(strings.TrimSpace(c.Name))
		if _, exists := nameSet[ln]; exists {
			return nil, fmt.Errorf("config file %s: duplicate character name '%s'", path, c.Name)
		}
		nameSet[ln] = struct{}{}
		out = append(out, game.Character{
			Name:          strings.TrimSpace(c.Name),
			MaxHP:         c.MaxHP,
			Attack:        c.Attack,
			RequiredLevel: c.RequiredLevel,
		})
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	cfg := &LoadedConfig{
		Characters:                     out,
		ServerAddress:                  addr,
		WinnerXP:                       defaultWinnerXP,
		LoserXP:                        defaultLoserXP,
		MachineSpecialThresholdPercent: defaultMachineThreshold,
	}
	if rc.WinnerXP != nil {
		cfg.WinnerXP = *rc.WinnerXP
	}
	if rc.LoserXP != nil {
		cfg.LoserXP = *rc.LoserXP
	}
	if rc.MachineSpecialThresholdPercent != nil {
		cfg.MachineSpecialThresholdPercent = *rc.MachineSpecialThresholdPercent
	}
	if cfg.WinnerXP < 0 || cfg.LoserXP < 0 {
		return nil, fmt.Errorf("config file %s: xp awards must not be negative", path)
	}
	if cfg.MachineSpecialThresholdPercent < 0 || cfg.MachineSpecialThresholdPercent > 100 {
		return nil, fmt.Errorf("config file %s: machine_special_threshold_percent must be in [0,100]", path)
	}
	return cfg, nil
}
