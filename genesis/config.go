// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tacolabs/childapp/taco"
)

// Config is the user customized genesis, read from YAML.
type Config struct {
	Name                 string                `yaml:"name"`
	LaunchTime           uint64                `yaml:"launchTime"`
	Relayer              taco.Address          `yaml:"relayer"`
	MinimumAuthorization *math.HexOrDecimal256 `yaml:"minimumAuthorization"`
	// forced updates are enabled when admin is set
	Admin       *taco.Address  `yaml:"admin"`
	DevUpdaters []taco.Address `yaml:"devUpdaters"`
}

// LoadConfig reads the config from the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &config, nil
}

func (c *Config) validate() error {
	if c.Relayer.IsZero() {
		return errors.New("relayer must be set")
	}
	if c.MinimumAuthorization == nil || (*big.Int)(c.MinimumAuthorization).Sign() <= 0 {
		return errors.New("minimumAuthorization must be a positive integer")
	}
	if len(c.DevUpdaters) > 0 && (c.Admin == nil || c.Admin.IsZero()) {
		return errors.New("devUpdaters require an admin")
	}
	return nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(config *Config) (*Genesis, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	params := deployParams{
		relayer:              config.Relayer,
		minimumAuthorization: (*big.Int)(config.MinimumAuthorization),
		updaters:             config.DevUpdaters,
	}
	if config.Admin != nil {
		params.admin = *config.Admin
	}
	name := config.Name
	if name == "" {
		name = "customnet"
	}
	return newGenesis(name, config.LaunchTime, params)
}
