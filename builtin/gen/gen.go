// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gen

import (
	"embed"
	"fmt"

	"github.com/tacolabs/childapp/abi"
)

//go:embed compiled/*.abi
var compiled embed.FS

// Asset loads the named asset, e.g. "compiled/Bridge.abi".
func Asset(name string) ([]byte, error) {
	return compiled.ReadFile(name)
}

// MustAsset is like Asset but panics when the asset is missing.
func MustAsset(name string) []byte {
	data, err := Asset(name)
	if err != nil {
		panic(fmt.Errorf("asset %s can't read by error: %v", name, err))
	}
	return data
}

// MustLoadABI loads the ABI of the named contract, e.g. "Coordinator".
func MustLoadABI(name string) *abi.ABI {
	contractABI, err := abi.New(MustAsset("compiled/" + name + ".abi"))
	if err != nil {
		panic(fmt.Errorf("load ABI for '%s': %w", name, err))
	}
	return contractABI
}
