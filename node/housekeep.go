// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
)

// block time follows the local clock, so a drifting clock skews eligibility dates
const maxClockOffset = 5 * time.Second

func (n *Node) houseKeeping(ctx context.Context) {
	logger.Debug("enter house keeping")
	defer logger.Debug("leave house keeping")

	clockSyncTicker := time.NewTicker(10 * time.Minute)
	defer clockSyncTicker.Stop()

	go n.checkClockOffset()
	for {
		select {
		case <-ctx.Done():
			return
		case <-clockSyncTicker.C:
			go n.checkClockOffset()
		}
	}
}

func (n *Node) checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	n.clockOffset.Store(int64(resp.ClockOffset))
	n.clockChecked.Store(true)
	if !ClockSynced(resp.ClockOffset) {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

// ClockOffset returns the last measured offset of the local clock. ok is false until
// the first successful measurement.
func (n *Node) ClockOffset() (offset time.Duration, ok bool) {
	return time.Duration(n.clockOffset.Load()), n.clockChecked.Load()
}

// ClockSynced reports whether the measured offset is within the tolerated bound.
func ClockSynced(offset time.Duration) bool {
	return offset <= maxClockOffset && offset >= -maxClockOffset
}
