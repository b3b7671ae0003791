// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tacolabs/childapp/api/utils"
	"github.com/tacolabs/childapp/node"
	"github.com/tacolabs/childapp/taco"
)

// Chain is implemented by node.Node.
type Chain interface {
	GenesisID() taco.Bytes32
	Head() node.Block
}

type Head struct {
	Number   uint32       `json:"number"`
	Time     uint64       `json:"time"`
	ClauseID taco.Bytes32 `json:"clauseID"`
}

type Info struct {
	Name      string       `json:"name"`
	GenesisID taco.Bytes32 `json:"genesisID"`
	Head      Head         `json:"head"`
}

type Node struct {
	chain Chain
	name  string
}

func New(chain Chain, name string) *Node {
	return &Node{
		chain,
		name,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	head := n.chain.Head()
	return utils.WriteJSON(w, &Info{
		Name:      n.name,
		GenesisID: n.chain.GenesisID(),
		Head: Head{
			Number:   head.Number,
			Time:     head.Time,
			ClauseID: head.ClauseID,
		},
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
}
