// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// create a table for staker events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	name text not null,
	principal blob(20),
	target blob(20),
	amount text,
	epoch integer,
	timestamp integer,
	data text
);

CREATE INDEX if not exists principalIndex on event(principal);
CREATE INDEX if not exists nameIndex on event(name);
CREATE INDEX if not exists timestampIndex on event(timestamp);
`
