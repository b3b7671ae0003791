// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package bridge is the local endpoint of the root application. The relayer delivers
// updates from the root chain through Relay, confirmations made by the registry are
// queued in the outbox for the way back.
package bridge

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/abi"
	"github.com/tacolabs/childapp/builtin/gen"
	"github.com/tacolabs/childapp/builtin/reverts"
	"github.com/tacolabs/childapp/builtin/solidity"
	"github.com/tacolabs/childapp/log"
	"github.com/tacolabs/childapp/state"
	"github.com/tacolabs/childapp/taco"
	"github.com/tacolabs/childapp/xenv"
)

var (
	logger = log.WithContext("pkg", "bridge")

	ABI         = gen.MustLoadABI("Bridge")
	registryABI = gen.MustLoadABI("ChildApplication")

	slotRegistry = taco.BytesToBytes32([]byte("registry"))
	slotRelayer  = taco.BytesToBytes32([]byte("relayer"))
	slotOutbox   = taco.BytesToBytes32([]byte("outbox"))

	// registry methods the relayer may deliver
	relayable = func() map[abi.MethodID]string {
		m := make(map[abi.MethodID]string)
		for _, method := range registryABI.Methods() {
			switch method.Name() {
			case "updateOperator", "updateAuthorization", "updateAuthorization0":
				m[method.ID()] = method.Sig()
			}
		}
		return m
	}()
)

type Bridge struct {
	addr     taco.Address
	registry *solidity.Address
	relayer  *solidity.Address
	outbox   *solidity.Array[taco.Address]
}

// New create a new instance.
func New(addr taco.Address, state *state.State) *Bridge {
	ctx := solidity.NewContext(addr, state)
	return &Bridge{
		addr:     addr,
		registry: solidity.NewAddress(ctx, slotRegistry),
		relayer:  solidity.NewAddress(ctx, slotRelayer),
		outbox:   solidity.NewArray[taco.Address](ctx, slotOutbox),
	}
}

// Deploy writes the registry the bridge feeds and the account allowed to relay.
func Deploy(addr taco.Address, state *state.State, registry, relayer taco.Address) (*Bridge, error) {
	if registry.IsZero() || relayer.IsZero() {
		return nil, reverts.NewInvalidArgument("Wrong input parameters")
	}
	b := New(addr, state)
	b.registry.Set(registry)
	b.relayer.Set(relayer)
	return b, nil
}

func (b *Bridge) Address() taco.Address {
	return b.addr
}

func (b *Bridge) Registry() (taco.Address, error) {
	registry, err := b.registry.Get()
	if err != nil {
		return taco.Address{}, errors.Wrap(err, "failed to get registry")
	}
	return registry, nil
}

func (b *Bridge) Relayer() (taco.Address, error) {
	relayer, err := b.relayer.Get()
	if err != nil {
		return taco.Address{}, errors.Wrap(err, "failed to get relayer")
	}
	return relayer, nil
}

// Relay delivers an encoded registry call coming from the root chain. Relayer only.
func (b *Bridge) Relay(env *xenv.Environment, message []byte) error {
	relayer, err := b.Relayer()
	if err != nil {
		return err
	}
	if env.Caller() != relayer {
		return reverts.NewInvalidCaller("Only relayer can call this")
	}
	selector, err := abi.ExtractMethodID(message)
	if err != nil {
		return reverts.NewInvalidArgument("Message too short")
	}
	sig, ok := relayable[selector]
	if !ok {
		return reverts.NewInvalidArgument("Message not relayable")
	}

	registry, err := b.Registry()
	if err != nil {
		return err
	}
	if _, err := env.Call(registry, message); err != nil {
		return err
	}

	var topic taco.Bytes32
	copy(topic[:], selector[:])
	ev, _ := ABI.EventByName("MessageRelayed")
	env.Log(ev, b.addr, []taco.Bytes32{topic})
	logger.Debug("message relayed", "method", sig)
	return nil
}

// ConfirmOperatorAddress queues the confirmation for the root chain. Registry only.
func (b *Bridge) ConfirmOperatorAddress(env *xenv.Environment, operator taco.Address) error {
	registry, err := b.Registry()
	if err != nil {
		return err
	}
	if env.Caller() != registry {
		return reverts.NewInvalidCaller("Only registry can call this")
	}
	sequence, err := b.outbox.Push(operator)
	if err != nil {
		return errors.Wrap(err, "failed to queue confirmation")
	}

	ev, _ := ABI.EventByName("OperatorConfirmationSent")
	env.Log(ev, b.addr, []taco.Bytes32{taco.BytesToBytes32(operator.Bytes())}, new(big.Int).SetUint64(sequence))
	logger.Debug("operator confirmation queued", "operator", operator, "sequence", sequence)
	return nil
}

// Outbox returns at most maxCount confirmed operators from start, all remaining if maxCount is 0.
func (b *Bridge) Outbox(start, maxCount uint64) ([]taco.Address, error) {
	length, err := b.OutboxLength()
	if err != nil {
		return nil, err
	}
	if start >= length {
		return []taco.Address{}, nil
	}
	end := length
	if maxCount != 0 && maxCount < length-start {
		end = start + maxCount
	}
	operators := make([]taco.Address, 0, end-start)
	for i := start; i < end; i++ {
		operator, err := b.outbox.Get(i)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get outbox entry")
		}
		operators = append(operators, operator)
	}
	return operators, nil
}

func (b *Bridge) OutboxLength() (uint64, error) {
	n, err := b.outbox.Len()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get outbox length")
	}
	return n, nil
}
