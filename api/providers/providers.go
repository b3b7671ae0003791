// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package providers

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/tacolabs/childapp/api/utils"
	"github.com/tacolabs/childapp/builtin"
	"github.com/tacolabs/childapp/taco"
)

// Providers serves the registry views of staking providers and operators.
type Providers struct {
	caller utils.Caller
}

func New(caller utils.Caller) *Providers {
	return &Providers{caller}
}

func (p *Providers) call(name string, v any, args ...any) error {
	return utils.CallMethod(p.caller, builtin.ChildApplication.Address, builtin.ChildApplication.ABI, name, v, args...)
}

func parseAddress(req *http.Request, name string) (taco.Address, error) {
	addr, err := taco.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return taco.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func (p *Providers) handleGetActive(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	start, err := utils.QueryUint(query, "start", 64, 0)
	if err != nil {
		return err
	}
	maxCount, err := utils.QueryUint(query, "max", 64, 0)
	if err != nil {
		return err
	}
	cohort, err := utils.QueryUint(query, "cohort", 32, 0)
	if err != nil {
		return err
	}

	var out activeProvidersOutput
	if err := p.call("getActiveStakingProviders", &out,
		new(big.Int).SetUint64(start),
		new(big.Int).SetUint64(maxCount),
		uint32(cohort),
	); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertActiveProviders(&out))
}

func (p *Providers) handleGetLength(w http.ResponseWriter, _ *http.Request) error {
	var length *big.Int
	if err := p.call("getStakingProvidersLength", &length); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Length{length.Uint64()})
}

func (p *Providers) handleGetProvider(w http.ResponseWriter, req *http.Request) error {
	provider, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var out providerInfoOutput
	if err := p.call("stakingProviderInfo", &out, common.Address(provider)); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertProviderInfo(&out))
}

func (p *Providers) handleGetEligible(w http.ResponseWriter, req *http.Request) error {
	provider, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	endDate, err := utils.QueryUint(req.URL.Query(), "end", 64, 0)
	if err != nil {
		return err
	}
	var eligible *big.Int
	if err := p.call("eligibleStake", &eligible, common.Address(provider), new(big.Int).SetUint64(endDate)); err != nil {
		return err
	}
	return utils.WriteJSON(w, &EligibleStake{
		EndDate:  endDate,
		Eligible: (*math.HexOrDecimal256)(eligible),
	})
}

func (p *Providers) handleGetOperator(w http.ResponseWriter, req *http.Request) error {
	operator, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var (
		provider  common.Address
		confirmed bool
	)
	if err := p.call("operatorToStakingProvider", &provider, common.Address(operator)); err != nil {
		return err
	}
	if err := p.call("isOperatorConfirmed", &confirmed, common.Address(operator)); err != nil {
		return err
	}
	return utils.WriteJSON(w, &OperatorInfo{taco.Address(provider), confirmed})
}

// Mount mounts the provider routes under pathPrefix and the operator route under operatorPrefix.
func (p *Providers) Mount(root *mux.Router, pathPrefix, operatorPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/active").
		Methods(http.MethodGet).
		Name("providers_get_active").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetActive))
	sub.Path("/length").
		Methods(http.MethodGet).
		Name("providers_get_length").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetLength))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("providers_get_provider").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetProvider))
	sub.Path("/{address}/eligible").
		Methods(http.MethodGet).
		Name("providers_get_eligible").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetEligible))

	root.Path(operatorPrefix+"/{address}").
		Methods(http.MethodGet).
		Name("operators_get_operator").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetOperator))
}
