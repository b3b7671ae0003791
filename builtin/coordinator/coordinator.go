// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package coordinator is the local authority of the registry. Operators publish their
// ritual public key here, which confirms their binding in the registry.
package coordinator

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/builtin/gen"
	"github.com/tacolabs/childapp/builtin/reverts"
	"github.com/tacolabs/childapp/builtin/solidity"
	"github.com/tacolabs/childapp/log"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/xenv"
)

var (
	logger = log.WithContext("pkg", "coordinator")

	ABI         = gen.MustLoadABI("Coordinator")
	registryABI = gen.MustLoadABI("ChildApplication")

	slotApplication = taco.BytesToBytes32([]byte("application"))
	slotPublicKeys  = taco.BytesToBytes32([]byte("public-keys"))
)

type Coordinator struct {
	addr        taco.Address
	application *solidity.Address
	publicKeys  *solidity.Mapping[taco.Address, []byte]
}

// New create a new instance.
func New(addr taco.Address, state *state.State) *Coordinator {
	ctx := solidity.NewContext(addr, state)
	return &Coordinator{
		addr:        addr,
		application: solidity.NewAddress(ctx, slotApplication),
		publicKeys:  solidity.NewMapping[taco.Address, []byte](ctx, slotPublicKeys),
	}
}

// Deploy writes the registry the coordinator serves.
func Deploy(addr taco.Address, state *state.State, application taco.Address) (*Coordinator, error) {
	if application.IsZero() {
		return nil, reverts.NewInvalidArgument("Application must be specified")
	}
	c := New(addr, state)
	c.application.Set(application)
	return c, nil
}

func (c *Coordinator) Address() taco.Address {
	return c.addr
}

// Application returns the registry the coordinator serves.
func (c *Coordinator) Application() (taco.Address, error) {
	app, err := c.application.Get()
	if err != nil {
		return taco.Address{}, errors.Wrap(err, "failed to get application")
	}
	return app, nil
}

// SetProviderPublicKey stores the key of the provider the calling operator is bound to,
// then confirms the operator in the registry if it isn't yet.
func (c *Coordinator) SetProviderPublicKey(env *xenv.Environment, publicKey []byte) error {
	if len(publicKey) == 0 {
		return reverts.NewInvalidArgument("Public key must be specified")
	}
	app, err := c.Application()
	if err != nil {
		return err
	}
	operator := env.Caller()

	var provider common.Address
	if err := callRegistry(env, app, "operatorToStakingProvider", &provider, common.Address(operator)); err != nil {
		return err
	}
	if provider == (common.Address{}) {
		return reverts.NewPreconditionNotMet("Operator has no bond with staking provider")
	}

	if err := c.publicKeys.Set(taco.Address(provider), publicKey); err != nil {
		return errors.Wrap(err, "failed to set public key")
	}
	ev, _ := ABI.EventByName("ParticipantPublicKeySet")
	env.Log(ev, c.addr, []taco.Bytes32{
		taco.BytesToBytes32(provider.Bytes()),
		taco.BytesToBytes32(operator.Bytes()),
	}, publicKey)

	var confirmed bool
	if err := callRegistry(env, app, "isOperatorConfirmed", &confirmed, common.Address(operator)); err != nil {
		return err
	}
	if !confirmed {
		if err := callRegistry(env, app, "confirmOperatorAddress", nil, common.Address(operator)); err != nil {
			return err
		}
	}
	logger.Debug("public key set", "provider", taco.Address(provider), "operator", operator, "confirmed", !confirmed)
	return nil
}

// GetProviderPublicKey returns the key published for the provider, empty if none.
func (c *Coordinator) GetProviderPublicKey(provider taco.Address) ([]byte, error) {
	key, err := c.publicKeys.Get(provider)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get public key")
	}
	return key, nil
}

func callRegistry(env *xenv.Environment, registry taco.Address, name string, out any, args ...any) error {
	method, found := registryABI.MethodByName(name)
	if !found {
		return errors.Errorf("registry method %s not found", name)
	}
	input, err := method.EncodeInput(args...)
	if err != nil {
		return errors.Wrapf(err, "encode %s call", name)
	}
	output, err := env.Call(registry, input)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return method.DecodeOutput(output, out)
}
