// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"time"

	"github.com/tacolabs/childapp/node"
	"github.com/tacolabs/childapp/taco"
)

// Source is the node state inspected by the health check.
type Source interface {
	GenesisID() taco.Bytes32
	Head() node.Block
	ClockOffset() (time.Duration, bool)
}

type Head struct {
	Number uint32    `json:"number"`
	Time   time.Time `json:"time"`
}

type Clock struct {
	Checked bool   `json:"checked"`
	Offset  string `json:"offset"`
	Synced  bool   `json:"synced"`
}

type Status struct {
	Healthy   bool         `json:"healthy"`
	GenesisID taco.Bytes32 `json:"genesisId"`
	Head      Head         `json:"head"`
	Clock     Clock        `json:"clock"`
}

type Health struct {
	src Source
}

func New(src Source) *Health {
	return &Health{src: src}
}

// Status reports the node unhealthy once the local clock is known to drift,
// since block times and eligibility end dates derive from it.
func (h *Health) Status() *Status {
	head := h.src.Head()
	offset, checked := h.src.ClockOffset()

	clock := Clock{Checked: checked, Synced: true}
	if checked {
		clock.Offset = offset.String()
		clock.Synced = node.ClockSynced(offset)
	}

	return &Status{
		Healthy:   clock.Synced,
		GenesisID: h.src.GenesisID(),
		Head: Head{
			Number: head.Number,
			Time:   time.Unix(int64(head.Time), 0).UTC(),
		},
		Clock: clock,
	}
}
