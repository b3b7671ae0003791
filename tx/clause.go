// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/tacolabs/childapp/taco"
)

type clauseBody struct {
	Caller taco.Address
	To     taco.Address
	Data   []byte
}

// Clause is the basic execution unit. It calls the contract at To with ABI encoded Data on behalf of Caller.
type Clause struct {
	body clauseBody
}

// NewClause create a new clause instance.
func NewClause(caller, to taco.Address) *Clause {
	return &Clause{clauseBody{Caller: caller, To: to}}
}

// WithData create a new clause copy with data changed.
func (c *Clause) WithData(data []byte) *Clause {
	newClause := *c
	newClause.body.Data = append([]byte(nil), data...)
	return &newClause
}

// Caller returns the sender of the clause.
func (c *Clause) Caller() taco.Address {
	return c.body.Caller
}

// To returns 'To' address.
func (c *Clause) To() taco.Address {
	return c.body.To
}

// Data returns 'Data'.
func (c *Clause) Data() []byte {
	return append([]byte(nil), c.body.Data...)
}

// ID computes the clause id, unique within the given block number and position.
func (c *Clause) ID(blockNum uint32, index uint32) taco.Bytes32 {
	return taco.Blake2bFn(func(w io.Writer) {
		var b [8]byte
		binary.BigEndian.PutUint32(b[:], blockNum)
		binary.BigEndian.PutUint32(b[4:], index)
		w.Write(b[:])
		rlp.Encode(w, &c.body)
	})
}

// EncodeRLP implements rlp.Encoder
func (c *Clause) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &c.body)
}

// DecodeRLP implements rlp.Decoder
func (c *Clause) DecodeRLP(s *rlp.Stream) error {
	var body clauseBody
	if err := s.Decode(&body); err != nil {
		return err
	}
	*c = Clause{body}
	return nil
}

func (c *Clause) String() string {
	return fmt.Sprintf(`
		(Caller:	%v
		 To:	%v
		 Data:	0x%x)`, c.body.Caller, c.body.To, c.body.Data)
}
