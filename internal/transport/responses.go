package transport

import (
	"math/big"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

type metadataResponse struct {
	BlockNumber     uint64  `json:"blockNumber"`
	TransactionHash string  `json:"transactionHash"`
	BlockTimestamp  uint64  `json:"blockTimestamp"`
	Confirmations   uint64  `json:"confirmations"`
	Cost            *string `json:"cost"`
	NetworkFee      *string `json:"networkFee"`
	GasFee          *string `json:"gasFee"`
	NetworkName     string  `json:"networkName"`
	ContractAddress string  `json:"contractAddress"`
}

type appendResponse struct {
	ContentID string           `json:"contentId"`
	Meta      metadataResponse `json:"meta"`
}

// entryResponse carries content as base64 through encoding/json.
type entryResponse struct {
	ContentID    string           `json:"contentId,omitempty"`
	Content      []byte           `json:"content,omitempty"`
	DeclaredSize uint64           `json:"declaredSize"`
	Meta         metadataResponse `json:"meta"`
}

type listResponse struct {
	Entries []entryResponse `json:"entries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newMetadataResponse(m model.Metadata) metadataResponse {
	return metadataResponse{
		BlockNumber:     m.BlockNumber,
		TransactionHash: m.TransactionHash,
		BlockTimestamp:  m.BlockTimestamp,
		Confirmations:   m.Confirmations,
		Cost:            decimal(m.Cost),
		NetworkFee:      decimal(m.NetworkFee),
		GasFee:          decimal(m.GasFee),
		NetworkName:     m.NetworkName,
		ContractAddress: m.ContractAddress,
	}
}

// decimal renders wei amounts as strings so clients never round them.
func decimal(v *big.Int) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}
