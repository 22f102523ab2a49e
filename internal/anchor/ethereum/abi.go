package ethereum

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	submitMethod = "submitHash"
	newHashEvent = "NewHash"
)

const anchorABIJSON = `[
  {
    "type": "function",
    "name": "submitHash",
    "stateMutability": "payable",
    "inputs": [
      {"name": "hash", "type": "string"},
      {"name": "feesParameters", "type": "bytes"}
    ],
    "outputs": []
  },
  {
    "type": "event",
    "name": "NewHash",
    "anonymous": false,
    "inputs": [
      {"name": "hash", "type": "string", "indexed": false},
      {"name": "hashSubmitter", "type": "address", "indexed": false},
      {"name": "feesParameters", "type": "bytes", "indexed": false}
    ]
  }
]`

const feeABIJSON = `[
  {
    "type": "function",
    "name": "getFeesAmount",
    "stateMutability": "view",
    "inputs": [{"name": "contentSize", "type": "uint256"}],
    "outputs": [{"name": "", "type": "uint256"}]
  }
]`

var (
	anchorABI = mustParseABI(anchorABIJSON)
	feeABI    = mustParseABI(feeABIJSON)
)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("ethereum: invalid contract abi: " + err.Error())
	}
	return parsed
}
