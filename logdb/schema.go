// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for events, seq packs block number and event index
const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	blockTime INTEGER NOT NULL,
	clauseID BLOB NOT NULL,
	caller BLOB NOT NULL,
	address BLOB NOT NULL,
	topic0 BLOB,
	topic1 BLOB,
	topic2 BLOB,
	topic3 BLOB,
	topic4 BLOB,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i_address ON event(address);
CREATE INDEX IF NOT EXISTS event_i_topic0 ON event(topic0);
CREATE INDEX IF NOT EXISTS event_i_topic1 ON event(topic1);
CREATE INDEX IF NOT EXISTS event_i_topic2 ON event(topic2);
CREATE INDEX IF NOT EXISTS event_i_topic3 ON event(topic3);
CREATE INDEX IF NOT EXISTS event_i_topic4 ON event(topic4);
`
